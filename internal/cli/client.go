package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dgrudge/lobby/internal/model"
)

const adminReplyWait = 5 * time.Second

// Client talks to a lobby server over HTTP and, for privileged operations,
// over the websocket protocol
type Client struct {
	serverURL string
	http      *http.Client
}

// NewClient creates a client for the given server URL
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// HealthResponse mirrors the server's health payload
type HealthResponse struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
	Games   int    `json:"games"`
}

// Health queries GET /health
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.getJSON(ctx, "/health", &out)
	return out, err
}

// Games queries GET /api/games
func (c *Client) Games(ctx context.Context) ([]model.RoomSummary, error) {
	var out struct {
		Games []model.RoomSummary `json:"games"`
	}
	err := c.getJSON(ctx, "/api/games", &out)
	return out.Games, err
}

func (c *Client) wsURL() string {
	url := c.serverURL
	url = strings.Replace(url, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return url + "/ws"
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to lobby: %w", err)
	}
	return conn, nil
}

// AdminStats requests the privileged counters. The server never replies to a
// wrong admin key, so that case surfaces here as a read timeout.
func (c *Client) AdminStats(ctx context.Context, adminKey string) (model.AdminStats, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return model.AdminStats{}, err
	}
	defer conn.Close()

	if err := conn.WriteJSON(model.ClientEnvelope{Type: model.TypeAdminStats, AdminKey: adminKey}); err != nil {
		return model.AdminStats{}, err
	}

	_ = conn.SetReadDeadline(time.Now().Add(adminReplyWait))
	for {
		var env struct {
			Type  string           `json:"type"`
			Stats model.AdminStats `json:"stats"`
		}
		if err := conn.ReadJSON(&env); err != nil {
			return model.AdminStats{}, fmt.Errorf("no stats reply (wrong admin key?): %w", err)
		}
		if env.Type == model.TypeAdminStats {
			return env.Stats, nil
		}
	}
}

// AdminKick kicks the target player. The protocol sends no acknowledgement;
// absence of a transport error is all there is.
func (c *Client) AdminKick(ctx context.Context, adminKey string, target model.PlayerID) error {
	return c.sendAdmin(ctx, model.ClientEnvelope{Type: model.TypeAdminKick, AdminKey: adminKey, TargetID: target})
}

// AdminBan bans the target player's address and disconnects it
func (c *Client) AdminBan(ctx context.Context, adminKey string, target model.PlayerID) error {
	return c.sendAdmin(ctx, model.ClientEnvelope{Type: model.TypeAdminBan, AdminKey: adminKey, TargetID: target})
}

func (c *Client) sendAdmin(ctx context.Context, env model.ClientEnvelope) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.WriteJSON(env); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
