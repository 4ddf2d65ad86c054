package uid

import (
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-sortable int64 identifiers.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator whose node number is derived from the
// process ID. Deployments that need guaranteed-unique node numbers should
// run one process per node.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(int64(os.Getpid()) % 1024)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new identifier.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
