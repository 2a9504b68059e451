package snowflake

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// GeneratorType separates ID spaces so user, goal and message IDs never collide
// when handed to external systems.
type GeneratorType int

const (
	GeneratorTypeUser GeneratorType = iota
	GeneratorTypeGoal
	GeneratorTypeMessage
)

var (
	nodes map[GeneratorType]*snowflake.Node
	once  sync.Once

	errInvalidMachineID   = errors.New("invalid snowflake machine id")
	errGeneratorUninitial = errors.New("snowflake generator is not initialized")
)

func Init(machineID, dataCenterID int64) error {
	var initErr error

	once.Do(func() {
		if machineID < 0 || machineID > 31 {
			initErr = errInvalidMachineID
			return
		}

		// datacenterID and machineID are both 0~31; each generator type gets
		// its own node so the sequence spaces stay disjoint
		base := (dataCenterID << 5) | machineID
		generators := []GeneratorType{GeneratorTypeUser, GeneratorTypeGoal, GeneratorTypeMessage}

		built := make(map[GeneratorType]*snowflake.Node, len(generators))
		for i, gt := range generators {
			node, err := snowflake.NewNode((base + int64(i)) % 1024)
			if err != nil {
				initErr = err
				return
			}
			built[gt] = node
		}

		nodes = built
	})

	return initErr
}

func NextID(gt GeneratorType) (int64, error) {
	if nodes == nil {
		return 0, errGeneratorUninitial
	}

	node, ok := nodes[gt]
	if !ok {
		return 0, errGeneratorUninitial
	}

	return node.Generate().Int64(), nil
}
