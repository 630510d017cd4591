//go:build linux

package executor

import (
	"github.com/godbus/dbus/v5"
)

const (
	portalBusName    = "org.freedesktop.portal.Desktop"
	portalObjectPath = "/org/freedesktop/portal/desktop"
	settingsIface    = "org.freedesktop.portal.Settings"

	appearanceNamespace = "org.freedesktop.appearance"
	colorSchemeKey      = "color-scheme"

	colorSchemeDefault uint32 = 0
	colorSchemeDark    uint32 = 1
	colorSchemeLight   uint32 = 2
)

// SettingsClient defines the interface for the desktop portal settings we
// consult. The abstraction keeps the D-Bus round trip mockable.
type SettingsClient interface {
	// ColorScheme returns the session's preferred color scheme
	// (0 = no preference, 1 = dark, 2 = light).
	ColorScheme() (uint32, error)

	// Close closes the D-Bus connection
	Close() error
}

// StdSettingsClient is the real implementation using godbus
type StdSettingsClient struct {
	conn *dbus.Conn
}

// NewStdSettingsClient creates a settings client connected to the session bus
func NewStdSettingsClient() (*StdSettingsClient, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &StdSettingsClient{conn: conn}, nil
}

// ColorScheme reads org.freedesktop.appearance color-scheme via the portal.
func (c *StdSettingsClient) ColorScheme() (uint32, error) {
	obj := c.conn.Object(portalBusName, dbus.ObjectPath(portalObjectPath))

	var value dbus.Variant
	if err := obj.Call(settingsIface+".Read", 0, appearanceNamespace, colorSchemeKey).Store(&value); err != nil {
		return colorSchemeDefault, err
	}

	// The portal wraps the value in a variant of a variant.
	inner, ok := value.Value().(dbus.Variant)
	if ok {
		value = inner
	}
	scheme, ok := value.Value().(uint32)
	if !ok {
		return colorSchemeDefault, nil
	}
	return scheme, nil
}

// Close closes the D-Bus connection
func (c *StdSettingsClient) Close() error {
	return c.conn.Close()
}
