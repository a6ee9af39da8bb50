package models

// ModelOutput is the raw answer of the trained model for one zone and hour.
// The model reports occupancy either as a percentage or as a 0-1 rate, and
// confidence either as 0-1 or 0-100; nil means the field was absent.
type ModelOutput struct {
	OccupancyPercent *float64
	OccupancyRate    *float64
	Confidence       *float64
}

// FileStatus describes one artifact the model depends on
type FileStatus struct {
	Path   string  `json:"path"`
	Exists bool    `json:"exists"`
	SizeMB float64 `json:"size_mb,omitempty"`
}

// MLStatusResponse is the JSON response for GET /api/v1/ml-status
type MLStatusResponse struct {
	Enabled      bool           `json:"enabled"`
	Loaded       bool           `json:"loaded"`
	ServiceURL   string         `json:"service_url"`
	Model        FileStatus     `json:"model"`
	DataDir      FileStatus     `json:"data_dir"`
	History      FileStatus     `json:"history"`
	HistoryZones int            `json:"history_zones"`
	ZoneMapping  map[int]string `json:"zone_mapping"`
	LoadError    string         `json:"load_error,omitempty"`
	Message      string         `json:"message"`
	Hints        []string       `json:"hints,omitempty"`
}

// SlotBaseline is the recorded occupancy of one zone at one hour-of-week slot
type SlotBaseline struct {
	ModelZoneID   string  `json:"model_zone_id"`
	DayOfWeek     int     `json:"day_of_week"`
	Hour          int     `json:"hour"`
	Observations  int     `json:"observations"`
	MeanOccupancy float64 `json:"mean_occupancy"`
	StdDev        float64 `json:"std_dev"`
}

// MLTestResponse is the JSON response for GET /api/v1/ml-test
type MLTestResponse struct {
	Success            bool               `json:"success"`
	Request            PredictionRequest  `json:"request"`
	Prediction         PredictionResponse `json:"prediction"`
	HistoricalBaseline *SlotBaseline      `json:"historical_baseline,omitempty"`
	Message            string             `json:"message"`
}
