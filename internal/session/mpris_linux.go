//go:build linux

package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	mprisBusPrefix   = "org.mpris.MediaPlayer2."
	mprisObjectPath  = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	dbusListNames    = "org.freedesktop.DBus.ListNames"
	dbusPropertyGet  = "org.freedesktop.DBus.Properties.Get"
	statusPlaying    = "Playing"
)

// mprisManager finds media sessions among MPRIS players on the session bus.
type mprisManager struct {
	conn *dbus.Conn
}

// NewManager connects to the D-Bus session bus and returns a Manager backed
// by MPRIS players.
func NewManager() (Manager, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return newMPRISManager(conn), nil
}

func newMPRISManager(conn *dbus.Conn) *mprisManager {
	return &mprisManager{conn: conn}
}

// CurrentSession picks the first playing player by bus name, falling back
// to the first player found.
func (m *mprisManager) CurrentSession(ctx context.Context) (Session, error) {
	var names []string
	call := m.conn.BusObject().CallWithContext(ctx, dbusListNames, 0)
	if err := call.Store(&names); err != nil {
		return nil, fmt.Errorf("list bus names: %w", err)
	}

	players := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, mprisBusPrefix) {
			players = append(players, name)
		}
	}
	if len(players) == 0 {
		return nil, nil //nolint:nilnil // no session is not an error
	}
	sort.Strings(players)

	for _, name := range players {
		s := m.session(name)
		if status, err := s.playbackStatus(ctx); err == nil && status == statusPlaying {
			return s, nil
		}
	}
	return m.session(players[0]), nil
}

func (m *mprisManager) session(busName string) *mprisSession {
	return &mprisSession{
		obj:   m.conn.Object(busName, mprisObjectPath),
		appID: strings.TrimPrefix(busName, mprisBusPrefix),
	}
}

// mprisSession reads properties of one MPRIS player.
type mprisSession struct {
	obj   dbus.BusObject
	appID string
}

func (s *mprisSession) OwnerAppID() string {
	return s.appID
}

func (s *mprisSession) property(ctx context.Context, name string) (dbus.Variant, error) {
	var v dbus.Variant
	err := s.obj.CallWithContext(ctx, dbusPropertyGet, 0, mprisPlayerIface, name).Store(&v)
	if err != nil {
		return dbus.Variant{}, fmt.Errorf("get %s: %w", name, err)
	}
	return v, nil
}

func (s *mprisSession) playbackStatus(ctx context.Context) (string, error) {
	v, err := s.property(ctx, "PlaybackStatus")
	if err != nil {
		return "", err
	}
	status, _ := v.Value().(string)
	return status, nil
}

func (s *mprisSession) MediaProperties(ctx context.Context) (*MediaProperties, error) {
	v, err := s.property(ctx, "Metadata")
	if err != nil {
		return nil, err
	}
	meta, ok := v.Value().(map[string]dbus.Variant)
	if !ok || len(meta) == 0 {
		return nil, nil //nolint:nilnil // player exposes no metadata
	}

	props := &MediaProperties{}
	if title, ok := meta["xesam:title"].Value().(string); ok {
		props.Title = title
	}
	if artists, ok := meta["xesam:albumArtist"].Value().([]string); ok {
		props.AlbumArtist = strings.Join(artists, ", ")
	}
	return props, nil
}

func (s *mprisSession) Position(ctx context.Context) (time.Duration, error) {
	v, err := s.property(ctx, "Position")
	if err != nil {
		return 0, err
	}
	us, ok := v.Value().(int64)
	if !ok {
		return 0, fmt.Errorf("position has type %s, want int64", v.Signature())
	}
	return time.Duration(us) * time.Microsecond, nil
}
