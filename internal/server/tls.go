package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"

	"taskmanager-api/internal/config"
	"taskmanager-api/internal/logging"
)

// newTLSConfig loads the certificate pair and restricts protocol versions
// and cipher suites
func newTLSConfig(cfg config.TLSConfig) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	minVersion, err := parseTLSVersion(cfg.MinVersion)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("TLS configured: cert=%s, minVersion=%s", cfg.CertFile, tls.VersionName(minVersion))

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
		// TLS 1.3 suites are not configurable and always enabled
		CipherSuites: []uint16{
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
		},
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
			tls.CurveP384,
		},
	}, nil
}

func parseTLSVersion(version string) (uint16, error) {
	switch version {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS min version %q (want 1.2 or 1.3)", version)
	}
}

// httpsRedirectHandler sends plain HTTP clients to the HTTPS port
func httpsRedirectHandler(httpsPort string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if colonPos := strings.LastIndex(host, ":"); colonPos != -1 {
			host = host[:colonPos]
		}

		httpsURL := fmt.Sprintf("https://%s:%s%s", host, httpsPort, r.RequestURI)
		if httpsPort == "443" {
			httpsURL = fmt.Sprintf("https://%s%s", host, r.RequestURI)
		}

		logging.Logger.WithFields(map[string]interface{}{
			"client_ip": r.RemoteAddr,
			"https_url": httpsURL,
			"method":    r.Method,
		}).Debug("HTTP to HTTPS redirect")

		// 308 keeps the method and body of PATCH and POST
		http.Redirect(w, r, httpsURL, http.StatusPermanentRedirect)
	})
}
