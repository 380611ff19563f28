package roadgraph

// NodeAccess reads and writes node coordinates.
type NodeAccess struct {
	g *BaseGraph
}

// SetNode stores the coordinate of an existing node. ele is ignored on 2D
// graphs.
func (na *NodeAccess) SetNode(node int, lat, lon, ele float64) error {
	g := na.g
	if err := g.checkWritable(); err != nil {
		return err
	}
	if err := g.checkNode(node); err != nil {
		return err
	}
	if err := checkCoordinate(lat, lon); err != nil {
		return err
	}
	var e int32
	if g.is3D {
		var err error
		if e, err = elevationToInt(ele); err != nil {
			return err
		}
	}

	ptr := g.nodes.Pointer(node)
	g.nodeDA.SetInt(ptr+nodeLat, degreeToInt(lat))
	g.nodeDA.SetInt(ptr+nodeLon, degreeToInt(lon))
	if g.is3D {
		g.nodeDA.SetInt(ptr+nodeEle, e)
	}
	return nil
}

// Point returns the coordinate of node.
func (na *NodeAccess) Point(node int) (Point, error) {
	if err := na.check(node); err != nil {
		return Point{}, err
	}
	return na.g.point(node), nil
}

// Lat returns the latitude of node.
func (na *NodeAccess) Lat(node int) (float64, error) {
	p, err := na.Point(node)
	return p.Lat, err
}

// Lon returns the longitude of node.
func (na *NodeAccess) Lon(node int) (float64, error) {
	p, err := na.Point(node)
	return p.Lon, err
}

// Ele returns the elevation of node, 0 on 2D graphs.
func (na *NodeAccess) Ele(node int) (float64, error) {
	p, err := na.Point(node)
	return p.Ele, err
}

// Is3D reports whether nodes carry an elevation.
func (na *NodeAccess) Is3D() bool { return na.g.is3D }

// Dimension returns 2 or 3.
func (na *NodeAccess) Dimension() int { return na.g.Dimension() }

func (na *NodeAccess) check(node int) error {
	if err := na.g.checkReadable(); err != nil {
		return err
	}
	return na.g.checkNode(node)
}
