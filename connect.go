package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"boardid-core/info"
)

const writeWait = 8 * time.Second
const pongWait = 180 * time.Second
const pingPeriod = (pongWait * 9) / 10

type ConnectResponse struct {
	Ok           bool   `json:"ok"`
	Message      string `json:"message"`
	EndpointPath string `json:"endpointPath"`
	HandshakeKey string `json:"handshakeKey"`
}

type ConnectPayload struct {
	Hostname string     `json:"hostname"`
	Service  string     `json:"service"`
	Info     *info.Info `json:"info"`
}

type Connection struct {
	destroy   chan struct{}
	reconnect chan struct{}
	client    *http.Client
	ws        *websocket.Conn
	payload   *ConnectPayload
	response  *ConnectResponse
	chanSend  chan any
	chanLive  chan []byte
}

func NewConnection(cp *ConnectPayload) *Connection {
	c := &Connection{
		destroy:   make(chan struct{}),
		reconnect: make(chan struct{}),
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 6 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: 5 * time.Second,
				IdleConnTimeout:       60 * time.Second,
			},
			Timeout: 8 * time.Second,
		},
		payload:  cp,
		chanSend: make(chan any, 16),
		chanLive: make(chan []byte, 16),
	}
	logrus.Info("[connect] started")
	for {
		err := c.connect()
		if err != nil {
			c.degrade(err, false)
			continue
		}
		break
	}
	go c.maintain()
	return c
}

func (c *Connection) maintain() {
	for range c.reconnect {
		logrus.Info("[connect] reconnection")
		err := c.connect()
		if err != nil {
			go c.degrade(err, true)
		}
	}
}

func (c *Connection) connect() error {
	var err error
	c.payload.Hostname, err = os.Hostname()
	if err != nil {
		logrus.Fatal("[connect] hostname err: ", err)
	}
	plJs, err := json.Marshal(c.payload)
	if err != nil {
		logrus.Fatal("[connect] marshal payload err: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 16*time.Second)
	defer cancel()

	endpoint := os.Getenv("ENDPOINT")
	if endpoint == "" {
		endpoint = "https://cloudnetip.com/api"
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		endpoint+"/nodes/handshake/v2", bytes.NewReader(plJs))
	if err != nil {
		logrus.Fatal("[connect] build request err: ", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Key", os.Getenv("CONNECT_KEY"))
	req.Header.Set("X-Version", os.Getenv("VERSION"))

	logrus.Debugf("[connect] try connect to api... board: %q", c.payload.Info.Data.Board.Label)

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(res.Body)

	if res.StatusCode >= 500 {
		return fmt.Errorf("response status: %s", res.Status)
	}

	c.response = new(ConnectResponse)
	err = json.NewDecoder(res.Body).Decode(c.response)
	if err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if !c.response.Ok {
		return errors.New("api message: " + c.response.Message)
	}

	logrus.Debugf("[connect] try connect to ws... endpoint path: %q", c.response.EndpointPath)

	c.ws, _, err = websocket.DefaultDialer.DialContext(ctx, c.response.EndpointPath, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))

	err = c.ws.WriteJSON(struct {
		Event   string `json:"event"`
		Key     string `json:"key"`
		Service string `json:"service"`
	}{
		"handshake",
		c.response.HandshakeKey,
		c.payload.Service,
	})
	if err != nil {
		_ = c.ws.Close()
		return fmt.Errorf("handshake: %w", err)
	}

	_, _, err = c.ws.ReadMessage()
	if err != nil {
		_ = c.ws.Close()
		return fmt.Errorf("handshake: %w", err)
	}
	logrus.Info("[connect] handshake successful")

	ctx, cancel = context.WithCancel(context.Background())
	go c.writer(ctx)
	go c.reader(cancel)

	return nil
}

func (c *Connection) reader(cancel context.CancelFunc) {
	defer cancel()
	// handler get pong
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
				logrus.Debug("[connect] read pump err: ", err)
			}
			return
		}
		c.chanLive <- message
	}
}

func (c *Connection) writer(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			go c.degrade(errors.New("reader context done"), true)
			return
		case message, ok := <-c.chanSend:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				go c.degrade(errors.New("write pump: send channel closed"), true)
				return
			}
			err := c.ws.WriteJSON(message)
			if err != nil {
				go c.degrade(fmt.Errorf("write pump err: %w", err), true)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				go c.degrade(fmt.Errorf("write pump: ticker write ping, err: %w", err), true)
				return
			}
		case <-c.destroy:
			err := c.ws.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				logrus.Warn("[connect] write pump close err: ", err)
				return
			}
			_ = c.ws.Close()
			return
		}
	}
}

func (c *Connection) send(message any) {
	select {
	case c.chanSend <- message:
	default:
		logrus.Warn("[connect] send buffer full, message dropped")
	}
}

func (c *Connection) close() {
	c.destroy <- struct{}{}
}

func (c *Connection) degrade(err error, reconnect bool) {
	logrus.Warn("[connect] failure, err: ", err)
	logrus.Info("[connect] trying to reconnect after waiting 3 seconds")
	time.Sleep(3 * time.Second)
	if reconnect {
		select {
		case c.reconnect <- struct{}{}:
		default:
			logrus.Debug("[connect] skip! signal reconnect")
		}
	}
}
