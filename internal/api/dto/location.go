package dto

type LookupRequest struct {
	Query string `json:"query"`
}

// DeviceRequest is the browser's geolocation outcome: a fix, or an error
// such as "denied" or "unsupported".
type DeviceRequest struct {
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Error string   `json:"error"`
}

type ResolutionResponse struct {
	Applied   bool               `json:"applied"`
	Reference *ReferenceResponse `json:"reference"`
	Snapshot  SnapshotResponse   `json:"snapshot"`
}
