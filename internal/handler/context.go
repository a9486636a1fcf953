package handler

type ContextKey string

var (
	RoleCtxKey             ContextKey = "role"
	SubCtxKey              ContextKey = "sub"
	MyInfoCtx              ContextKey = "myInfo"
	ShiftTimeDefinitionCtx ContextKey = "shiftTimeDefinition"
	RotationPatternCtx     ContextKey = "rotationPattern"
	RosterCtx              ContextKey = "roster"
)
