package todoserv

// ServiceName is the name used for logging and process identification.
const ServiceName = "todoserv"

const (
	DefaultPort         = 5000
	DefaultDatabaseURL  = "mongodb://localhost:27017"
	DefaultDatabaseName = "todos"
)

const (
	// PortEnvironmentVariable overrides the configured listen port.
	PortEnvironmentVariable = "PORT"
	// MongoURLEnvironmentVariable overrides the configured database
	// connection string.
	MongoURLEnvironmentVariable = "MONGO_URL"
)
