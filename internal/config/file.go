package config

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// ClusterConfig holds cluster connectivity and security configuration.
type ClusterConfig struct {
	Name           string        `yaml:"name"`
	Brokers        []string      `yaml:"brokers"`
	ClientID       string        `yaml:"client_id,omitempty"`
	SessionTimeout time.Duration `yaml:"session_timeout,omitempty"`
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
	TLS            *TLSConfig    `yaml:"tls,omitempty"`
	SASL           *SASLConfig   `yaml:"sasl,omitempty"`
	AWS            *AWSConfig    `yaml:"aws,omitempty"`
}

// TLSConfig holds TLS related fields.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled,omitempty"`
	CAFile             string `yaml:"ca_file,omitempty"`
	CertFile           string `yaml:"cert_file,omitempty"`
	KeyFile            string `yaml:"key_file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty"`
}

// SASLConfig holds SASL configuration. Credentials may be provided inline or via env var names.
type SASLConfig struct {
	Mechanism   string `yaml:"mechanism,omitempty"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	UsernameEnv string `yaml:"username_env,omitempty"`
	PasswordEnv string `yaml:"password_env,omitempty"`
}

// AWSConfig holds AWS MSK IAM SASL config.
type AWSConfig struct {
	IAM             bool   `yaml:"iam,omitempty"`
	AccessKeyEnv    string `yaml:"access_key_env,omitempty"`
	SecretKeyEnv    string `yaml:"secret_key_env,omitempty"`
	SessionTokenEnv string `yaml:"session_token_env,omitempty"`
}

// FileConfig is the on-disk profile file.
type FileConfig struct {
	Clusters []ClusterConfig `yaml:"clusters"`
}

func ReadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// FindCluster returns the profile with the given name.
func (f FileConfig) FindCluster(name string) (ClusterConfig, bool) {
	for _, c := range f.Clusters {
		if c.Name == name {
			return c, true
		}
	}
	return ClusterConfig{}, false
}

// Address returns the first seed broker, which is what log lines and errors
// refer to as the broker address.
func (c *ClusterConfig) Address() string {
	if len(c.Brokers) == 0 {
		return ""
	}
	return c.Brokers[0]
}

// GetAuthType returns a human-readable authentication type based on the cluster config
func (c *ClusterConfig) GetAuthType() string {
	if c.AWS != nil && c.AWS.IAM {
		return "AWS IAM"
	}

	if c.SASL != nil && c.SASL.Mechanism != "" {
		mechanism := c.SASL.Mechanism
		if c.TLS != nil && c.TLS.Enabled {
			return "SASL/" + mechanism + " + TLS"
		}
		return "SASL/" + mechanism
	}

	if c.TLS != nil && c.TLS.Enabled {
		if c.TLS.CertFile != "" && c.TLS.KeyFile != "" {
			return "mTLS"
		}
		return "TLS"
	}

	return "PLAINTEXT"
}

// CertificateInfo holds certificate validity information
type CertificateInfo struct {
	NotBefore    time.Time
	NotAfter     time.Time
	DaysToExpiry int
	Status       string // "valid", "warning", "critical", "expired"
}

// GetCertificateInfo reads the client certificate to extract validity information.
// It returns nil when the profile has no client certificate.
func (c *ClusterConfig) GetCertificateInfo() (*CertificateInfo, error) {
	if !c.HasCertificate() {
		return nil, nil
	}

	certPEM, err := os.ReadFile(c.TLS.CertFile)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", c.TLS.CertFile)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	daysToExpiry := int(time.Until(cert.NotAfter).Hours() / 24)

	status := "valid"
	if now.After(cert.NotAfter) {
		status = "expired"
	} else if daysToExpiry <= 7 {
		status = "critical"
	} else if daysToExpiry <= 30 {
		status = "warning"
	}

	return &CertificateInfo{
		NotBefore:    cert.NotBefore,
		NotAfter:     cert.NotAfter,
		DaysToExpiry: daysToExpiry,
		Status:       status,
	}, nil
}

// HasCertificate returns true if the cluster uses certificate-based authentication
func (c *ClusterConfig) HasCertificate() bool {
	return c.TLS != nil && c.TLS.Enabled && c.TLS.CertFile != ""
}

// FindConfigPath looks for a profile file in the usual locations and returns
// the first one that exists, or "" when there is none.
func FindConfigPath() string {
	names := []string{"kafkaman.yml", "kafkaman.yaml"}
	var candidates []string

	for _, n := range names {
		candidates = append(candidates, "./"+n)
	}

	home, _ := os.UserHomeDir()
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			for _, n := range names {
				candidates = append(candidates, filepath.Join(appdata, "kafkaman", n))
			}
		}
	} else {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			for _, n := range names {
				candidates = append(candidates, filepath.Join(xdg, "kafkaman", n))
			}
		}
		if home != "" {
			for _, n := range names {
				candidates = append(candidates, filepath.Join(home, ".config", "kafkaman", n))
			}
		}
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
