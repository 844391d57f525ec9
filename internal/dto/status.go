package dto

type StatusDTO struct {
	App     AppStatusDTO     `json:"app"`
	Storage StorageStatusDTO `json:"storage"`
	Sheet   SheetStatusDTO   `json:"sheet"`
}

type AppStatusDTO struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	StartedAt string `json:"started_at"`
}

type StorageStatusDTO struct {
	Path          string `json:"path"`
	SchemaVersion int    `json:"schema_version"`
}

type SheetStatusDTO struct {
	Level           int  `json:"level"`
	Dirty           bool `json:"dirty"`
	Readiness       int  `json:"readiness"`
	ReadinessTarget int  `json:"readiness_target"`
	CanLevelUp      bool `json:"can_level_up"`
}
