package query

import (
	"encoding/json"
	"time"

	"github.com/galacticcic/galacticcic/internal/parsers"
	"github.com/galacticcic/galacticcic/internal/store"
)

// Config keys mirror the collectors that own the corresponding config
// table rows (internal/collector's top_processes/platform_status/
// activity_log constants). They're redeclared here
// rather than imported so the query layer never depends on the
// collector package — the dashboard only ever talks to the store.
const (
	topProcessesConfigKey   = "top_processes_snapshot"
	platformStatusConfigKey = "platform_status_snapshot"
	activityLogConfigKey    = "activity_log_snapshot"
)

// ServerHealthPanel is everything the Server Health panel needs to
// render in one read.
type ServerHealthPanel struct {
	HasData    bool
	AgeSeconds float64

	CPUPercent  float64
	MemPercent  float64
	DiskPercent float64
	Load1       float64
	Load5       float64
	Load15      float64
	CPUTrend    Arrow
	MemTrend    Arrow
	DiskTrend   Arrow

	CPUSparkline string

	NetworkActiveConnections int
	NetworkUniqueIPs         int
	NetworkSparkline         string

	TopProcesses []parsers.ProcessRow
}

// LoadServerHealthPanel assembles the Server Health panel from the
// latest server_metrics/network_metrics rows plus the top-processes
// config snapshot.
func LoadServerHealthPanel(s *store.Store, now float64) (ServerHealthPanel, error) {
	var p ServerHealthPanel

	latest, found, err := s.LatestServerMetrics()
	if err != nil {
		return p, err
	}
	if found {
		p.HasData = true
		p.AgeSeconds = now - latest.Timestamp
		p.CPUPercent = latest.CPUPercent
		if latest.MemTotalMB > 0 {
			p.MemPercent = 100 * latest.MemUsedMB / latest.MemTotalMB
		}
		if latest.DiskTotalGB > 0 {
			p.DiskPercent = 100 * latest.DiskUsedGB / latest.DiskTotalGB
		}
		p.Load1, p.Load5, p.Load15 = latest.Load1m, latest.Load5m, latest.Load15m
	}

	cpuTrend, err := MetricTrend(s, "cpu_percent", now, time.Hour.Seconds())
	if err != nil {
		return p, err
	}
	p.CPUTrend = cpuTrend

	memTrend, err := MetricTrend(s, "mem_percent", now, time.Hour.Seconds())
	if err != nil {
		return p, err
	}
	p.MemTrend = memTrend

	diskTrend, err := MetricTrend(s, "disk_percent", now, time.Hour.Seconds())
	if err != nil {
		return p, err
	}
	p.DiskTrend = diskTrend

	points, err := RecentServer(s, now, 1, 60)
	if err != nil {
		return p, err
	}
	cpuValues := make([]float64, len(points))
	for i, pt := range points {
		cpuValues[len(points)-1-i] = pt.CPUPercent
	}
	p.CPUSparkline = Sparkline(cpuValues, 60)

	if net, found, err := s.LatestNetworkMetrics(); err != nil {
		return p, err
	} else if found {
		p.NetworkActiveConnections = net.ActiveConnections
		p.NetworkUniqueIPs = net.UniqueIPs
	}
	if spark, err := NetworkSparkline(s, now, 1, 60); err != nil {
		return p, err
	} else {
		p.NetworkSparkline = spark
	}

	if raw, found, err := s.GetConfigValue(topProcessesConfigKey); err != nil {
		return p, err
	} else if found {
		var rows []parsers.ProcessRow
		if err := json.Unmarshal([]byte(raw), &rows); err == nil {
			p.TopProcesses = rows
		}
	}

	return p, nil
}

// AgentRow is one agent's Agent Fleet panel line.
type AgentRow struct {
	Name          string
	Model         string
	Sessions      int
	TokensUsed    int64
	StorageBytes  int64
	IsDefault     bool
	TokensPerHour TokensPerHourResult
}

// AgentFleetPanel is the Agent Fleet panel's full content.
type AgentFleetPanel struct {
	HasData            bool
	Agents             []AgentRow
	TotalSessions      int
	TotalTokensUsed    int64
	TotalTokensPerHour float64
}

// LoadAgentFleetPanel assembles the Agent Fleet panel from the latest
// tick's agent_metrics rows plus each agent's trailing-hour token rate.
func LoadAgentFleetPanel(s *store.Store, now float64) (AgentFleetPanel, error) {
	var p AgentFleetPanel

	latest, err := s.LatestAgentMetrics()
	if err != nil {
		return p, err
	}
	if len(latest) == 0 {
		return p, nil
	}
	p.HasData = true

	perAgent := make(map[string][]store.TokenSample, len(latest))
	for _, row := range latest {
		p.TotalSessions += row.Sessions
		p.TotalTokensUsed += row.TokensUsed

		samples, err := s.AgentTokenSamples(row.AgentName, now, time.Hour.Seconds())
		if err != nil {
			return p, err
		}
		perAgent[row.AgentName] = samples

		p.Agents = append(p.Agents, AgentRow{
			Name:          row.AgentName,
			Model:         row.Model,
			Sessions:      row.Sessions,
			TokensUsed:    row.TokensUsed,
			StorageBytes:  row.StorageBytes,
			IsDefault:     row.IsDefault,
			TokensPerHour: TokensPerHour(samples),
		})
	}
	p.TotalTokensPerHour = TotalTokensPerHour(perAgent)

	return p, nil
}

// CronJobsPanel is the Cron Jobs panel's full content.
type CronJobsPanel struct {
	HasData bool
	Jobs    []store.CronMetrics
}

// LoadCronJobsPanel assembles the Cron Jobs panel from the latest
// tick's cron_metrics rows.
func LoadCronJobsPanel(s *store.Store) (CronJobsPanel, error) {
	jobs, err := s.LatestCronMetrics()
	if err != nil {
		return CronJobsPanel{}, err
	}
	return CronJobsPanel{HasData: len(jobs) > 0, Jobs: jobs}, nil
}

// AttackerRow joins one watchlisted IP's nmap result with its
// geolocation, for the Security panel's attacker table.
type AttackerRow struct {
	IP        string
	OpenPorts string
	OSGuess   string
	Country   string
	City      string
	ISP       string
}

// SecurityPanel is the Security panel's full content.
type SecurityPanel struct {
	HasMetrics     bool
	Metrics        store.SecurityMetrics
	ListeningPorts []store.PortScan
	Attackers      []AttackerRow
	NmapActive     bool
}

// nmapActiveConfigKey mirrors internal/collector's key of the same
// name, the nmap collector's cross-process proxy for the in-memory
// nmap_active flag.
const nmapActiveConfigKey = "nmap_active"

// LoadSecurityPanel assembles the Security panel from the latest
// security_metrics row, the latest port_scans tick, and the joined
// attacker_scans/geo_cache rows for the watchlisted IPs.
func LoadSecurityPanel(s *store.Store) (SecurityPanel, error) {
	var p SecurityPanel

	if m, found, err := s.LatestSecurityMetrics(); err != nil {
		return p, err
	} else if found {
		p.HasMetrics = true
		p.Metrics = m
	}

	ports, err := s.LatestPortScans()
	if err != nil {
		return p, err
	}
	p.ListeningPorts = ports

	scans, err := s.RecentAttackerScans(10)
	if err != nil {
		return p, err
	}
	geoByIP := make(map[string]store.GeoEntry)
	if geos, err := s.RecentGeoEntries(50); err != nil {
		return p, err
	} else {
		for _, g := range geos {
			geoByIP[g.IP] = g
		}
	}
	for _, scan := range scans {
		geo := geoByIP[scan.IP]
		p.Attackers = append(p.Attackers, AttackerRow{
			IP:        scan.IP,
			OpenPorts: scan.OpenPorts,
			OSGuess:   scan.OSGuess,
			Country:   geo.CountryCode,
			City:      geo.City,
			ISP:       geo.ISP,
		})
	}

	if raw, found, err := s.GetConfigValue(nmapActiveConfigKey); err != nil {
		return p, err
	} else if found {
		p.NmapActive = raw == "true"
	}

	return p, nil
}

// ActivityLogPanel is the Activity Log panel's full content: the
// errors, recent, and SSH-events streams the activity collector split at
// write time.
type ActivityLogPanel struct {
	HasData   bool
	Errors    []string
	Recent    []string
	SSHEvents []string
}

// LoadActivityLogPanel reads the activity collector's latest JSON
// snapshot out of the config table.
func LoadActivityLogPanel(s *store.Store) (ActivityLogPanel, error) {
	var p ActivityLogPanel

	raw, found, err := s.GetConfigValue(activityLogConfigKey)
	if err != nil {
		return p, err
	}
	if !found {
		return p, nil
	}

	var snap struct {
		Errors    []string `json:"errors"`
		Recent    []string `json:"recent"`
		SSHEvents []string `json:"ssh_events"`
	}
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return p, nil
	}
	p.HasData = true
	p.Errors = snap.Errors
	p.Recent = snap.Recent
	p.SSHEvents = snap.SSHEvents
	return p, nil
}

// SitrepPanel is the SITREP panel's full content: channel health,
// update availability, aggregated action items, and the platform's
// raw status/gateway output.
type SitrepPanel struct {
	ChannelHealth     string
	HasChannelHealth  bool
	UpdateAvailable   bool
	HasUpdateCheck    bool
	ActionItems       []string
	HasActionItems    bool
	PlatformStatus    string
	GatewayStatus     string
	HasPlatformStatus bool
}

// LoadSitrepPanel reads every SITREP cache key and the platform-status
// config snapshot.
func LoadSitrepPanel(s *store.Store) (SitrepPanel, error) {
	var p SitrepPanel

	if text, ok, err := rawSitrepPayload(s, "channels"); err != nil {
		return p, err
	} else if ok {
		p.HasChannelHealth = true
		p.ChannelHealth = text
	}
	if entry, found, err := s.GetSitrep("update_check"); err != nil {
		return p, err
	} else if found {
		var payload struct {
			UpdateAvailable bool `json:"update_available"`
		}
		if err := json.Unmarshal([]byte(entry.Payload), &payload); err == nil {
			p.HasUpdateCheck = true
			p.UpdateAvailable = payload.UpdateAvailable
		}
	}
	if entry, found, err := s.GetSitrep("action_items"); err != nil {
		return p, err
	} else if found {
		var payload struct {
			Items []string `json:"items"`
		}
		if err := json.Unmarshal([]byte(entry.Payload), &payload); err == nil {
			p.HasActionItems = true
			p.ActionItems = payload.Items
		}
	}

	if raw, found, err := s.GetConfigValue(platformStatusConfigKey); err != nil {
		return p, err
	} else if found {
		var snap struct {
			Status        string `json:"status"`
			GatewayStatus string `json:"gateway_status"`
		}
		if err := json.Unmarshal([]byte(raw), &snap); err == nil {
			p.HasPlatformStatus = true
			p.PlatformStatus = snap.Status
			p.GatewayStatus = snap.GatewayStatus
		}
	}

	return p, nil
}

// rawSitrepPayload unwraps the channel-health collector's {"raw": "..."}
// payload, the only SITREP stream still carrying a verbatim command dump.
func rawSitrepPayload(s *store.Store, key string) (string, bool, error) {
	entry, found, err := s.GetSitrep(key)
	if err != nil || !found {
		return "", false, err
	}
	var wrapped struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal([]byte(entry.Payload), &wrapped); err != nil {
		return "", false, nil
	}
	return wrapped.Raw, true, nil
}
