// Package mlclient talks to the model-serving sidecar that hosts the trained
// occupancy regressor. Payloads are JSON encoded through protobuf's
// well-known Struct type so that numeric fields survive untyped.
package mlclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/you/parkcast/models"
)

// maxResponseBytes bounds sidecar responses
const maxResponseBytes = 1 << 20

// Client is an HTTP client for the model sidecar.
// Load runs once; every later call returns the first outcome.
type Client struct {
	baseURL   string
	modelPath string
	dataDir   string
	http      *http.Client
	log       *logrus.Entry

	once    sync.Once
	mu      sync.RWMutex
	loaded  bool
	loadErr error
}

// Options configures a Client
type Options struct {
	BaseURL   string
	ModelPath string
	DataDir   string
	Timeout   time.Duration
	Log       *logrus.Entry
}

// New creates a client; nothing is contacted until Load
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		modelPath: opts.ModelPath,
		dataDir:   opts.DataDir,
		http:      &http.Client{Timeout: timeout},
		log:       opts.Log,
	}
}

// Load verifies the model artifact and dataset directory exist locally, then
// asks the sidecar to load them. Failures wrap models.ErrModelUnavailable.
func (c *Client) Load(ctx context.Context) error {
	c.once.Do(func() {
		err := c.load(ctx)
		c.mu.Lock()
		c.loaded = err == nil
		c.loadErr = err
		c.mu.Unlock()

		if c.log == nil {
			return
		}
		if err != nil {
			c.log.WithError(err).Warn("trained model unavailable, using rule-based estimates")
			return
		}
		c.log.WithFields(logrus.Fields{
			"service_url": c.baseURL,
			"model_path":  c.modelPath,
		}).Info("trained model loaded")
	})

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

func (c *Client) load(ctx context.Context) error {
	if _, err := os.Stat(c.modelPath); err != nil {
		return fmt.Errorf("%w: model file %s: %v", models.ErrModelUnavailable, c.modelPath, err)
	}
	if st, err := os.Stat(c.dataDir); err != nil || !st.IsDir() {
		return fmt.Errorf("%w: data directory %s not found", models.ErrModelUnavailable, c.dataDir)
	}

	body, err := structpb.NewStruct(map[string]interface{}{
		"model_path": c.modelPath,
		"data_dir":   c.dataDir,
	})
	if err != nil {
		return fmt.Errorf("failed to build load request: %w", err)
	}

	if _, err := c.post(ctx, "/load", body); err != nil {
		return fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}
	return nil
}

// Loaded reports whether Load has succeeded
func (c *Client) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LoadError returns the stored load failure, if any
func (c *Client) LoadError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadErr
}

// PredictAt asks the model for the occupancy of modelZoneID at ts
func (c *Client) PredictAt(ctx context.Context, modelZoneID string, ts time.Time) (models.ModelOutput, error) {
	if !c.Loaded() {
		return models.ModelOutput{}, models.ErrModelUnavailable
	}

	stamp := timestamppb.New(ts)
	if err := stamp.CheckValid(); err != nil {
		return models.ModelOutput{}, fmt.Errorf("invalid prediction time: %w", err)
	}

	body, err := structpb.NewStruct(map[string]interface{}{
		"zone_id":   modelZoneID,
		"timestamp": stamp.AsTime().Format(time.RFC3339),
	})
	if err != nil {
		return models.ModelOutput{}, fmt.Errorf("failed to build predict request: %w", err)
	}

	resp, err := c.post(ctx, "/predict", body)
	if err != nil {
		return models.ModelOutput{}, err
	}
	return decodeOutput(resp)
}

func decodeOutput(s *structpb.Struct) (models.ModelOutput, error) {
	var out models.ModelOutput
	fields := s.GetFields()

	out.OccupancyPercent = numberField(fields, "occupancy_percent")
	out.OccupancyRate = numberField(fields, "occupancy_rate")
	out.Confidence = numberField(fields, "confidence")

	if out.OccupancyPercent == nil && out.OccupancyRate == nil {
		return models.ModelOutput{}, fmt.Errorf("model response has no occupancy field")
	}
	return out, nil
}

func numberField(fields map[string]*structpb.Value, key string) *float64 {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil
	}
	f := n.NumberValue
	return &f
}

func (c *Client) post(ctx context.Context, path string, body *structpb.Struct) (*structpb.Struct, error) {
	payload, err := protojson.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call model service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model service %s returned status %d", path, resp.StatusCode)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	return out, nil
}

// Artifacts reports the local files the model depends on
func (c *Client) Artifacts() (model, dataDir models.FileStatus) {
	model = models.FileStatus{Path: c.modelPath}
	if st, err := os.Stat(c.modelPath); err == nil {
		model.Exists = true
		model.SizeMB = float64(st.Size()) / (1024 * 1024)
	}
	dataDir = models.FileStatus{Path: c.dataDir}
	if st, err := os.Stat(c.dataDir); err == nil && st.IsDir() {
		dataDir.Exists = true
	}
	return model, dataDir
}

// BaseURL returns the sidecar address
func (c *Client) BaseURL() string {
	return c.baseURL
}
