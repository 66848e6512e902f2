package interfaces

// Service interface defines the methods that every kind of interface, whether
// REST, gRPC, or whatever must be compliant with.
type Service interface {
	Start() error
	Stop()
	// Address returns the address the service is listening on, once started.
	Address() string
}
