package repositories

// RepositoryProvider aggregates all repository facades so the service
// container can be constructed from a single dependency.
type RepositoryProvider interface {
	Ledger() LedgerRepositoryFacade
	Subjects() SubjectRepositoryFacade
	Posts() PostRepositoryFacade
	Connections() ConnectionRepositoryFacade
	Topups() TopupRepositoryFacade
	Users() UserRepositoryFacade
	Notifications() NotificationRepositoryFacade
	Audit() AuditRepositoryFacade
}
