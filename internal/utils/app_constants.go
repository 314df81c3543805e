package utils

const (
	OrganizationName = "Remonta"

	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	CoordinatorAccountType = "coordinator"
	AdminAccountType       = "admin"
	WorkerAccountType      = "worker"
)
