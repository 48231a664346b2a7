package domain

// ProximityResult - сделка с расстоянием до референсной точки.
// Вычисляется на лету и никогда не сохраняется.
type ProximityResult struct {
	Deal          Deal    `json:"deal"`
	DistanceMiles float64 `json:"distance_miles"`
}

// RadiusState - текущее состояние радиуса поиска
type RadiusState struct {
	RadiusMiles int  `json:"radius_miles"`
	IsDragging  bool `json:"is_dragging"`
}
