package config

import "time"

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetRequestTimeout() time.Duration {
	return 15 * time.Second
}

func (Client) GetDefaultSection() string {
	return "dashboard"
}
