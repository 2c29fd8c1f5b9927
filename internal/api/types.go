package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Metrics is the summary returned by /metrics.
type Metrics struct {
	TotalSpend       decimal.Decimal `json:"totalSpend"`
	IdleResources    int             `json:"idleResources"`
	PredictedSavings decimal.Decimal `json:"predictedSavings"`
	Anomalies        int             `json:"anomalies"`
}

// SecurityReport is the posture snapshot returned by /security.
type SecurityReport struct {
	IssuesFound             int      `json:"issues_found"`
	ComplianceScore         int      `json:"compliance_score"`
	PublicBuckets           Flag     `json:"public_buckets"`
	OpenPorts               []int    `json:"open_ports"`
	IAMMisconfiguration     bool     `json:"iam_misconfiguration"`
	EncryptionMissing       bool     `json:"encryption_missing"`
	MFAMissing              bool     `json:"mfa_missing"`
	SuspiciousLoginDetected bool     `json:"suspicious_login_detected"`
	Recommendations         []string `json:"recommendations"`
}

// Flag is a boolean that also accepts 0/1 on the wire.
// The security endpoint reports public_buckets as an integer.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(raw []byte) error {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*f = n != 0
	return nil
}

// TrendPoint is one day of the compliance trend.
type TrendPoint struct {
	Date            string `json:"date"`
	ComplianceScore int    `json:"compliance_score"`
}

// Instance is a compute instance listed by /instances.
type Instance struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	State      string `json:"state"`
	LaunchTime string `json:"launch_time"`
}

// Bucket is a storage bucket listed by /storage.
type Bucket struct {
	Name         string `json:"name"`
	CreationDate string `json:"creation_date"`
	PublicAccess bool   `json:"public_access"`
}

// IdleResource is a resource flagged by /ai/idle-detection.
type IdleResource struct {
	ID           string  `json:"id"`
	ResourceType string  `json:"resource_type"`
	CPUUsage     float64 `json:"cpu_usage"`
	MemoryUsage  float64 `json:"memory_usage"`
	Uptime       float64 `json:"uptime"`
	NetworkIn    float64 `json:"network_in"`
	DiskRead     float64 `json:"disk_read"`
	Status       string  `json:"status"`
}

// SpendHistory is the raw /spend-history response: two parallel arrays.
type SpendHistory struct {
	Months []string  `json:"months"`
	Spend  []float64 `json:"spend"`
}

// Recommendation is a single optimizer suggestion.
type Recommendation struct {
	ResourceID     string `json:"resource_id"`
	ClusterID      int    `json:"cluster_id"`
	Recommendation string `json:"recommendation"`
}

type instancesResponse struct {
	Instances []Instance `json:"instances"`
}

type storageResponse struct {
	Buckets []Bucket `json:"buckets"`
}

type idleResponse struct {
	IdleResources []IdleResource `json:"idle_resources"`
}

type optimizerResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Response string `json:"response"`
}
