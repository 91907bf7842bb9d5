package persistence

import "strings"

// ValidateSortField validates a sort field against a whitelist to prevent SQL injection.
// Returns the validated field or the default field if invalid.
func ValidateSortField(field string, allowedFields map[string]string, defaultField string) string {
	if field == "" {
		return defaultField
	}

	normalized := strings.ToLower(strings.TrimSpace(field))
	if dbField, ok := allowedFields[normalized]; ok {
		return dbField
	}

	return defaultField
}

// ValidateSortOrder validates sort order, returns "ASC" or "DESC" only.
func ValidateSortOrder(order string) string {
	normalized := strings.ToUpper(strings.TrimSpace(order))
	if normalized == "ASC" || normalized == "DESC" {
		return normalized
	}
	return "DESC"
}

// CommonSortFields defines sort fields shared by all entities.
var CommonSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"id":         "id",
}

// ReportSortFields defines allowed sort fields for activity reports.
var ReportSortFields = withCommonSortFields(map[string]string{
	"year":         "year",
	"month":        "month",
	"status":       "status",
	"total_days":   "total_days",
	"total_amount": "total_amount",
	"submitted_at": "submitted_at",
})

// EntrySortFields defines allowed sort fields for activity entries.
// line_total maps to a computed expression since the line amount is not stored.
var EntrySortFields = withCommonSortFields(map[string]string{
	"entry_date":  "entry_date",
	"quantity":    "quantity",
	"unit_price":  "unit_price",
	"description": "description",
	"line_total":  "(quantity * unit_price)",
})

// MissionSortFields defines allowed sort fields for missions.
var MissionSortFields = withCommonSortFields(map[string]string{
	"name":         "name",
	"status":       "status",
	"pricing_mode": "pricing_mode",
	"daily_rate":   "daily_rate",
	"fixed_price":  "fixed_price",
})

func withCommonSortFields(fields map[string]string) map[string]string {
	merged := make(map[string]string, len(fields)+len(CommonSortFields))
	for k, v := range CommonSortFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}
