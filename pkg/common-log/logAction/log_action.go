package logAction

const (
	Consuming    = "[CONSUMING]"
	Producing    = "[PRODUCING]"
	Produced     = "[PRODUCED]"
	AppLogic     = "[APP_LOGIC]"
	DbRequest    = "[DB_REQUEST]"
	DbResponse   = "[DB_RESPONSE]"
	CacheRequest = "[CACHE_REQUEST]"
	Exception    = "[EXCEPTION]"
	Inbound      = "[INBOUND]"
	Outbound     = "[OUTBOUND]"
	System       = "[SYSTEM]"
)

// Database operations used as the description of DB_REQUEST / DB_RESPONSE records.
const (
	DB_CREATE = "CREATE"
	DB_READ   = "READ"
	DB_UPDATE = "UPDATE"
	DB_DELETE = "DELETE"
)

type LoggerAction struct {
	Action            string `json:"action"`
	ActionDescription string `json:"actionDescription"`
	SubAction         string `json:"subAction,omitempty"`
}

func newAction(action, desc, subAction string) LoggerAction {
	return LoggerAction{
		Action:            action,
		ActionDescription: desc,
		SubAction:         subAction,
	}
}

func CONSUMING(desc string, subAction string) LoggerAction {
	return newAction(Consuming, desc, subAction)
}

func PRODUCING(desc string, subAction string) LoggerAction {
	return newAction(Producing, desc, subAction)
}

func PRODUCED(desc string, subAction string) LoggerAction {
	return newAction(Produced, desc, subAction)
}

func INBOUND(desc string, subAction string) LoggerAction {
	return newAction(Inbound, desc, subAction)
}

func OUTBOUND(desc string, subAction string) LoggerAction {
	return newAction(Outbound, desc, subAction)
}

func APP_LOGIC(desc string, subAction string) LoggerAction {
	return newAction(AppLogic, desc, subAction)
}

func DB_REQUEST(desc string, subAction string) LoggerAction {
	return newAction(DbRequest, desc, subAction)
}

func DB_RESPONSE(desc string, subAction string) LoggerAction {
	return newAction(DbResponse, desc, subAction)
}

func CACHE(desc string, subAction string) LoggerAction {
	return newAction(CacheRequest, desc, subAction)
}

func EXCEPTION(desc string, subAction string) LoggerAction {
	return newAction(Exception, desc, subAction)
}

func SYSTEM(desc string, subAction string) LoggerAction {
	return newAction(System, desc, subAction)
}
