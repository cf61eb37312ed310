package services

// ServiceProvider aggregates the service facades exposed to the transport
// layer. Handlers depend on this interface rather than concrete services.
type ServiceProvider interface {
	Coins() CoinSvcFacade
	Users() UserSvcFacade
	Posts() PostSvcFacade
	Connections() ConnectionSvcFacade
	Topups() TopupSvcFacade
	Workflow() WorkflowSvcFacade
	Notifications() NotificationSvcFacade
	Audit() AuditSvcFacade
	Reconcile() ReconcileSvcFacade
}
