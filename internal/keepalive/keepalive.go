// Package keepalive pings the service's own liveness endpoint on a fixed
// schedule so the hosting platform never idles the process out. The loop
// shares no state with request handling and swallows its own failures.
package keepalive

import (
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
)

type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	cron     *cron.Cron
}

// New builds a Pinger for the given URL. A nil client falls back to a
// short-timeout default.
func New(url string, interval time.Duration, client *http.Client) *Pinger {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Pinger{url: url, interval: interval, client: client}
}

// Start schedules the ping loop. It returns immediately.
func (p *Pinger) Start() {
	p.cron = cron.New()
	p.cron.Schedule(cron.Every(p.interval), cron.FuncJob(p.ping))
	p.cron.Start()
	log.Printf("keepalive ping scheduled every %s for %s", p.interval, p.url)
}

// Stop halts the schedule. Safe to call on a never-started Pinger.
func (p *Pinger) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
}

func (p *Pinger) ping() {
	resp, err := p.client.Get(p.url)
	if err != nil {
		log.Printf("keepalive ping failed: %v", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("keepalive ping returned status %d", resp.StatusCode)
	}
}
