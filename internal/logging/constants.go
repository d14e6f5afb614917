package logging

// Field names shared by all components so log lines can be filtered by
// owner, category or operation regardless of which package emitted them.
const (
	FieldOwner         = "owner"
	FieldCounterparty  = "counterparty"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldAmount        = "amount"
	FieldLimit         = "limit"
	FieldOperation     = "operation"
	FieldReason        = "reason"
	FieldError         = "error"
	FieldCount         = "count"
	FieldFile          = "file_path"
	FieldDelimiter     = "delimiter"
	FieldPeriod        = "period"
	FieldComponent     = "component"
)
