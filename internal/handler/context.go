package handler

type ContextKey string

var (
	RequestIDCtx  ContextKey = "requestID"
	AssetCtx      ContextKey = "asset"
	EmployeeCtx   ContextKey = "employee"
	AssignmentCtx ContextKey = "assignment"
)
