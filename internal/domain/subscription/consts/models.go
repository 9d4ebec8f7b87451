package consts

// Subscription models accepted by the notification provider
const (
	ModelCall       = "call"
	ModelCallOrigID = "call_origid"
	ModelSubscriber = "subscriber"
	ModelPresence   = "presence"
	ModelAuditLog   = "auditlog"
	ModelMessage    = "message"
	ModelAgent      = "agent"
)

var ValidModels = []string{
	ModelCall,
	ModelCallOrigID,
	ModelSubscriber,
	ModelPresence,
	ModelAuditLog,
	ModelMessage,
	ModelAgent,
}

// IsValidModel reports whether the provider knows the given model
func IsValidModel(model string) bool {
	for _, m := range ValidModels {
		if m == model {
			return true
		}
	}
	return false
}
