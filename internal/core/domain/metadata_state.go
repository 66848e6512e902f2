package domain

// MetadataState is the snapshot of the derived nodes of a session. It must
// not be mutated once returned.
type MetadataState struct {
	MetadataNodes      *RemoteMetadataNodes
	SecondPasswordNode *SecondPasswordNode
	isNew              bool
}

// NewMetadataState ...
func NewMetadataState(
	nodes *RemoteMetadataNodes, spn *SecondPasswordNode, isNew bool,
) *MetadataState {
	return &MetadataState{
		MetadataNodes:      nodes,
		SecondPasswordNode: spn,
		isNew:              isNew,
	}
}

// IsNew returns whether the root entry did not exist when the state was
// generated, meaning that it must be saved remotely.
func (s *MetadataState) IsNew() bool {
	return s.isNew
}
