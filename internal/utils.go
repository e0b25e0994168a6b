package internal

import (
	"encoding/base64"
	"log"
	"net"

	"github.com/google/uuid"
)

// URL compatible session id: a uuid encoded with base64url
func NewSessionID() string {
	return base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
}

func IsValidSessionID(sessionId string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(sessionId)
	if err != nil {
		return false
	}

	_, err = uuid.Parse(string(raw))
	return err == nil
}

// First IPv4 address of an interface that is up and not loopback.
// Falls back to 127.0.0.1/32 so a box without a network still boots.
func ServerIpNet() net.IPNet {
	fallback := net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Println("failed to list network interfaces:", err)
		return fallback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			log.Printf("failed to read addresses of %s: %v\n", iface.Name, err)
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	log.Println("no external ipv4 address found; using loopback")
	return fallback
}
