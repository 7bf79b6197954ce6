package eth

// SigningData is the container whose root is signed by validators.
type SigningData struct {
	ObjectRoot []byte
	Domain     []byte
}

// ForkData is the container hashed into a signature domain.
type ForkData struct {
	CurrentVersion        []byte
	GenesisValidatorsRoot []byte
}
