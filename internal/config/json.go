package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		PINHashKey      string   `json:"pin_hash_key"`
		TokenSignKey    string   `json:"token_sign_key"`
		TokenIssuer     string   `json:"token_issuer"`
		SessionDuration Duration `json:"session_duration"`
		KeyDir          string   `json:"key_dir"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Tier struct {
			BaseURL string   `json:"base_url"`
			Timeout Duration `json:"timeout"`
		} `json:"tier,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress string `json:"http_address"`
	} `json:"server,omitempty"`

	Cloud struct {
		HTTPAddress   string `json:"http_address"`
		AuthorityHost string `json:"authority_host"`
		BlobDir       string `json:"blob_dir"`
		MaxBlobBytes  int64  `json:"max_blob_bytes"`
		ParamsPath    string `json:"params_path"`
	} `json:"cloud,omitempty"`

	Scheduler struct {
		DebitInterval    Duration `json:"debit_interval"`
		InterestInterval Duration `json:"interest_interval"`
	} `json:"scheduler,omitempty"`

	Client struct {
		AuthorityBaseURL string   `json:"authority_base_url"`
		Timeout          Duration `json:"timeout"`
	} `json:"client,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			PINHashKey:      jsonCfg.App.PINHashKey,
			TokenSignKey:    jsonCfg.App.TokenSignKey,
			TokenIssuer:     jsonCfg.App.TokenIssuer,
			SessionDuration: time.Duration(jsonCfg.App.SessionDuration),
			KeyDir:          jsonCfg.App.KeyDir,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Tier: Tier{
				BaseURL: jsonCfg.Storage.Tier.BaseURL,
				Timeout: time.Duration(jsonCfg.Storage.Tier.Timeout),
			},
		},
		Server: Server{
			HTTPAddress: jsonCfg.Server.HTTPAddress,
		},
		Cloud: Cloud{
			HTTPAddress:   jsonCfg.Cloud.HTTPAddress,
			AuthorityHost: jsonCfg.Cloud.AuthorityHost,
			BlobDir:       jsonCfg.Cloud.BlobDir,
			MaxBlobBytes:  jsonCfg.Cloud.MaxBlobBytes,
			ParamsPath:    jsonCfg.Cloud.ParamsPath,
		},
		Scheduler: Scheduler{
			DebitInterval:    time.Duration(jsonCfg.Scheduler.DebitInterval),
			InterestInterval: time.Duration(jsonCfg.Scheduler.InterestInterval),
		},
		Client: Client{
			AuthorityBaseURL: jsonCfg.Client.AuthorityBaseURL,
			Timeout:          time.Duration(jsonCfg.Client.Timeout),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
