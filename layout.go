package roadgraph

import (
	"fmt"
	"math"

	"github.com/hupe1980/roadgraph/storage"
)

const (
	// AnyNode positions an edge state in its stored direction.
	AnyNode = -1

	// DefaultFlagBudget is the number of attribute bits reserved per edge.
	DefaultFlagBudget = 128

	noEdge int32 = -1
)

// Table names inside the directory.
const (
	nodesTable    = "nodes"
	edgesTable    = "edges"
	geometryTable = "geometry"
)

// Node record: int32 fields at byte offsets.
const (
	nodeHead   = 0
	nodeTail   = 4
	nodeLat    = 8
	nodeLon    = 12
	nodeEle    = 16
	nodeSize2D = 16
	nodeSize3D = 20
)

// Edge record: int32 fields at byte offsets, followed by the flag words.
const (
	edgeNodeA    = 0
	edgeNodeB    = 4
	edgeLinkA    = 8
	edgeLinkB    = 12
	edgeDistance = 16
	edgeGeoLow   = 20
	edgeGeoHigh  = 24
	edgeFlags    = 28
)

// Header slots after the ones owned by storage.RecordTable.
const (
	headerDimension   = storage.FirstFreeHeader
	headerFingerprint = storage.FirstFreeHeader + 1
	headerFlagWords   = storage.FirstFreeHeader
)

const (
	degreeFactor    = 1e7
	elevationFactor = 100
	distanceFactor  = 1000

	// MaxDistance is the largest storable edge distance in meters.
	MaxDistance = float64(math.MaxInt32) / distanceFactor
)

func edgeRecordSize(flagWords int) int {
	return edgeFlags + 4*flagWords
}

func nodeRecordSize(is3D bool) int {
	if is3D {
		return nodeSize3D
	}
	return nodeSize2D
}

func degreeToInt(deg float64) int32 {
	return int32(math.Round(deg * degreeFactor))
}

func intToDegree(v int32) float64 {
	return float64(v) / degreeFactor
}

func checkCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalid, lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalid, lon)
	}
	return nil
}

func elevationToInt(ele float64) (int32, error) {
	v := math.Round(ele * elevationFactor)
	if math.IsNaN(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: elevation %v", ErrInvalid, ele)
	}
	return int32(v), nil
}

func distanceToInt(meters float64) (int32, error) {
	if math.IsNaN(meters) || meters < 0 || meters > MaxDistance {
		return 0, fmt.Errorf("%w: distance %v", ErrInvalid, meters)
	}
	return int32(math.Round(meters * distanceFactor)), nil
}
