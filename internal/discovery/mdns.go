// ABOUTME: mDNS service discovery for the audio control endpoint
// ABOUTME: Advertises the control server and lets remote controllers find it
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the mDNS service type of the control endpoint
	ServiceType = "_fortune-audio._tcp"

	// DefaultPath is the WebSocket path advertised in the TXT record
	DefaultPath = "/gate"
)

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
	Path        string
}

// Manager handles mDNS operations
type Manager struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
}

// ServerInfo describes a discovered control server
type ServerInfo struct {
	Name string
	Host string
	Port int
	Path string
}

// Addr returns host:port
func (s ServerInfo) Addr() string {
	return net.JoinHostPort(s.Host, fmt.Sprint(s.Port))
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	if config.Path == "" {
		config.Path = DefaultPath
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Advertise announces the control server until Stop is called
func (m *Manager) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		[]string{"path=" + m.config.Path},
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", m.config.ServiceName, m.config.Port, ServiceType)

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Stop stops advertising
func (m *Manager) Stop() {
	m.cancel()
}

// Discover browses for control servers for up to timeout
func Discover(ctx context.Context, timeout time.Duration) ([]ServerInfo, error) {
	entries := make(chan *mdns.ServiceEntry, 10)
	found := make(chan []ServerInfo, 1)

	go func() {
		var servers []ServerInfo
		for entry := range entries {
			if entry.AddrV4 == nil {
				continue
			}
			info := ServerInfo{
				Name: entry.Name,
				Host: entry.AddrV4.String(),
				Port: entry.Port,
				Path: parsePath(entry.InfoFields),
			}
			log.Printf("Discovered server: %s at %s", info.Name, info.Addr())
			servers = append(servers, info)
		}
		found <- servers
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	done := make(chan error, 1)
	go func() { done <- mdns.Query(params) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
		// Query returns after its own timeout; wait so entries can be closed
		<-done
	}
	close(entries)

	servers := <-found
	if err != nil {
		return servers, fmt.Errorf("mdns query failed: %w", err)
	}
	return servers, nil
}

// parsePath extracts the path TXT field, defaulting to DefaultPath
func parsePath(fields []string) string {
	for _, f := range fields {
		if v, ok := strings.CutPrefix(f, "path="); ok && v != "" {
			return v
		}
	}
	return DefaultPath
}

// getLocalIPs returns local IP addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
