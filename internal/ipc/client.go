package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Kiosk.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Kiosk.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Recent returns the display history tail.
func (c *Client) Recent(count int) (*RecentResponse, error) {
	var resp RecentResponse
	if err := c.client.Call("Kiosk.Recent", RecentRequest{Count: count}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LastMeme returns the most recently displayed meme.
func (c *Client) LastMeme() (*LastMemeResponse, error) {
	var resp LastMemeResponse
	if err := c.client.Call("Kiosk.LastMeme", LastMemeRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Block blocks a meme by file name.
func (c *Client) Block(name string) (*BlockResponse, error) {
	var resp BlockResponse
	if err := c.client.Call("Kiosk.Block", BlockRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AskCommercial schedules a commercial for the next tick.
func (c *Client) AskCommercial() (*AskCommercialResponse, error) {
	var resp AskCommercialResponse
	if err := c.client.Call("Kiosk.AskCommercial", AskCommercialRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// KillCommercial stops an in-flight commercial.
func (c *Client) KillCommercial() (*KillCommercialResponse, error) {
	var resp KillCommercialResponse
	if err := c.client.Call("Kiosk.KillCommercial", KillCommercialRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Registry lists every tracked item per queue.
func (c *Client) Registry() (*RegistryResponse, error) {
	var resp RegistryResponse
	if err := c.client.Call("Kiosk.Registry", RegistryRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
