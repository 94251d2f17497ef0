package packets

import (
	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/scheduler"
)

type HealthResponse struct {
	Status    string                   `json:"status"`
	Server    string                   `json:"server"`
	Version   string                   `json:"version"`
	Scheduler scheduler.RegistryStatus `json:"scheduler"`
}

type RefreshResponse struct {
	Refreshed bool                    `json:"refreshed"`
	Report    scheduler.RefreshReport `json:"report"`
}

type ZoneRefreshResponse struct {
	Refreshed    bool             `json:"refreshed"`
	ZoneConfigID int              `json:"zone_config_id"`
	Timeline     []scheduler.Step `json:"timeline"`
}

type PrefetchResponse struct {
	ZoneConfigID int `json:"zone_config_id"`
	Year         int `json:"year"`
	Month        int `json:"month"`
	Days         int `json:"days"`
}

type TimelineResponse struct {
	ZoneConfigID int              `json:"zone_config_id"`
	Timeline     []scheduler.Step `json:"timeline"`
}

type ZoneStatus struct {
	ZoneConfigID int     `json:"zone_config_id"`
	Pending      int     `json:"pending"`
	NextAction   *string `json:"next_action_at"`
}

type StatusResponse struct {
	Scheduler scheduler.RegistryStatus `json:"scheduler"`
	Zones     []ZoneStatus             `json:"zones"`
}

type LogResponse struct {
	Entries []model.ActionLogEntry `json:"entries"`
}
