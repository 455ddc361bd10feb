package dtos

// RouteSearchIn asks for the shortest path between two operational points.
type RouteSearchIn struct {
	StartOp string `json:"start_op"`
	EndOp   string `json:"end_op"`
}

// RouteSearchOut lists the section-of-line ids forming the path, in order.
type RouteSearchOut struct {
	SectionOfLineIDs []int64 `json:"sectionofline_ids"`
}
