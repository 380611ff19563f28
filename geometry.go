package roadgraph

import (
	"fmt"
	"slices"
)

// Point is a WGS84 coordinate. Ele is in meters and always 0 on 2D graphs.
type Point struct {
	Lat float64
	Lon float64
	Ele float64
}

// FetchMode selects which points FetchWayGeometry returns.
type FetchMode int

const (
	// FetchPillarOnly returns the points between base and adjacent node.
	FetchPillarOnly FetchMode = iota
	// FetchBaseAndPillar prepends the base node.
	FetchBaseAndPillar
	// FetchPillarAndAdj appends the adjacent node.
	FetchPillarAndAdj
	// FetchAll returns base node, pillars and adjacent node.
	FetchAll
)

func (m FetchMode) String() string {
	switch m {
	case FetchPillarOnly:
		return "pillar_only"
	case FetchBaseAndPillar:
		return "base_and_pillar"
	case FetchPillarAndAdj:
		return "pillar_and_adj"
	case FetchAll:
		return "all"
	default:
		return fmt.Sprintf("FetchMode(%d)", int(m))
	}
}

// Geometry entries are stored as a point count followed by lat, lon and, on
// 3D graphs, ele per point. Edges reference entries by word index; 0 means
// no geometry.

func (s *edgeState) geoRef() int64 {
	da := s.g.edgeDA
	low := uint32(da.GetInt(s.ptr + edgeGeoLow))
	high := da.GetInt(s.ptr + edgeGeoHigh)
	return int64(high)<<32 | int64(low)
}

func (s *edgeState) setGeoRef(ref int64) {
	s.g.edgeDA.SetInt(s.ptr+edgeGeoLow, int32(uint32(ref)))
	s.g.edgeDA.SetInt(s.ptr+edgeGeoHigh, int32(ref>>32))
}

func (s *edgeState) FetchWayGeometry(mode FetchMode) []Point {
	g := s.g
	if g.closed {
		return nil
	}
	var pillars []Point
	if ref := s.geoRef(); ref > 0 {
		pillars = g.readGeometry(ref)
		if s.reverse {
			slices.Reverse(pillars)
		}
	}

	withBase := mode == FetchBaseAndPillar || mode == FetchAll
	withAdj := mode == FetchPillarAndAdj || mode == FetchAll
	if !withBase && !withAdj {
		return pillars
	}

	out := make([]Point, 0, len(pillars)+2)
	if withBase {
		out = append(out, g.point(s.base))
	}
	out = append(out, pillars...)
	if withAdj {
		out = append(out, g.point(s.adj))
	}
	return out
}

func (s *edgeState) SetWayGeometry(points []Point) error {
	g := s.g
	if err := g.checkWritable(); err != nil {
		return err
	}

	dim := g.Dimension()
	words := make([]int32, 0, 1+len(points)*dim)
	words = append(words, int32(len(points)))
	for i := range points {
		p := points[i]
		if s.reverse {
			p = points[len(points)-1-i]
		}
		if err := checkCoordinate(p.Lat, p.Lon); err != nil {
			return err
		}
		words = append(words, degreeToInt(p.Lat), degreeToInt(p.Lon))
		if g.is3D {
			ele, err := elevationToInt(p.Ele)
			if err != nil {
				return err
			}
			words = append(words, ele)
		}
	}

	if len(points) == 0 {
		s.setGeoRef(0)
		return nil
	}

	ref := s.geoRef()
	if ref <= 0 || int(g.geoDA.GetInt(ref*4)) < len(points) {
		first, err := g.geometry.Add(len(words))
		if err != nil {
			err = translateError(err)
			g.logger.WithEdge(s.edge).Warn("way geometry rejected", "points", len(points), "error", err)
			return err
		}
		ref = int64(first)
	}
	for i, w := range words {
		g.geoDA.SetInt((ref+int64(i))*4, w)
	}
	s.setGeoRef(ref)
	return nil
}

func (g *BaseGraph) readGeometry(ref int64) []Point {
	count := int(g.geoDA.GetInt(ref * 4))
	pos := (ref + 1) * 4
	points := make([]Point, count)
	for i := range points {
		points[i].Lat = intToDegree(g.geoDA.GetInt(pos))
		points[i].Lon = intToDegree(g.geoDA.GetInt(pos + 4))
		pos += 8
		if g.is3D {
			points[i].Ele = float64(g.geoDA.GetInt(pos)) / elevationFactor
			pos += 4
		}
	}
	return points
}

func (g *BaseGraph) point(node int) Point {
	ptr := g.nodes.Pointer(node)
	p := Point{
		Lat: intToDegree(g.nodeDA.GetInt(ptr + nodeLat)),
		Lon: intToDegree(g.nodeDA.GetInt(ptr + nodeLon)),
	}
	if g.is3D {
		p.Ele = float64(g.nodeDA.GetInt(ptr+nodeEle)) / elevationFactor
	}
	return p
}
