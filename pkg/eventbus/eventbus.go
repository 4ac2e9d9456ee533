// Package eventbus is a small topic based pub/sub used to fan scene
// change notifications out to UI code. Repeated publishes of the same
// value on a topic are deduplicated through a short lived cache.
package eventbus

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type Config struct {
	IncomingBuffer    int
	SubscribeBuffer   int
	UnsubscribeBuffer int
	ChannelBuffer     int
	CacheTTL          time.Duration
}

var DefaultConfig = &Config{
	IncomingBuffer:    100,
	SubscribeBuffer:   10,
	UnsubscribeBuffer: 10,
	ChannelBuffer:     10,
	CacheTTL:          time.Minute,
}

type Message struct {
	Topic string
	Data  float64
}

type Controller struct {
	subs sync.Map // topic -> []chan float64

	incoming chan Message
	sub      chan newSub
	unsub    chan chan float64
	cache    *ttlcache.Cache[string, float64]

	channelBuffer int

	closeOnce sync.Once
	quit      chan struct{}
}

type newSub struct {
	topic string
	resp  chan float64
}

func New(cfg *Config) *Controller {
	if cfg == nil {
		cfg = DefaultConfig
	}
	c := &Controller{
		incoming:      make(chan Message, cfg.IncomingBuffer),
		sub:           make(chan newSub, cfg.SubscribeBuffer),
		unsub:         make(chan chan float64, cfg.UnsubscribeBuffer),
		cache:         ttlcache.New[string, float64](ttlcache.WithTTL[string, float64](cfg.CacheTTL)),
		channelBuffer: cfg.ChannelBuffer,
		quit:          make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Controller) run() {
	for {
		select {
		case <-c.quit:
			c.cleanup()
			return
		case msg := <-c.incoming:
			c.handleMessage(msg)
		case sub := <-c.sub:
			c.handleSubscription(sub)
		case ch := <-c.unsub:
			c.handleUnsubscription(ch)
		}
	}
}

func (c *Controller) handleMessage(msg Message) {
	if v := c.cache.Get(msg.Topic); v != nil && v.Value() == msg.Data {
		return
	}
	c.cache.Set(msg.Topic, msg.Data, ttlcache.DefaultTTL)
	if value, ok := c.subs.Load(msg.Topic); ok {
		for _, sub := range value.([]chan float64) {
			select {
			case sub <- msg.Data:
			default:
				log.Printf("channel full for topic %s", msg.Topic)
			}
		}
	}
}

func (c *Controller) handleSubscription(sub newSub) {
	var subs []chan float64
	if value, ok := c.subs.Load(sub.topic); ok {
		subs = value.([]chan float64)
	}
	c.subs.Store(sub.topic, append(subs, sub.resp))
	// Replay the last published value so late subscribers start in sync.
	if v := c.cache.Get(sub.topic); v != nil {
		select {
		case sub.resp <- v.Value():
		default:
		}
	}
}

func (c *Controller) handleUnsubscription(ch chan float64) {
	c.subs.Range(func(key, value any) bool {
		subs := value.([]chan float64)
		for i, sub := range subs {
			if sub == ch {
				c.subs.Store(key, append(subs[:i:i], subs[i+1:]...))
				close(ch)
				return false
			}
		}
		return true
	})
}

func (c *Controller) cleanup() {
	c.subs.Range(func(key, value any) bool {
		for _, sub := range value.([]chan float64) {
			close(sub)
		}
		c.subs.Delete(key)
		return true
	})
}

// Publish sends data on topic. Identical back-to-back values are
// suppressed.
func (c *Controller) Publish(topic string, data float64) error {
	select {
	case <-c.quit:
		return errors.New("eventbus closed")
	case c.incoming <- Message{Topic: topic, Data: data}:
		return nil
	}
}

// Subscribe returns a channel receiving every distinct value published
// on topic. The channel is closed by Unsubscribe or Close.
func (c *Controller) Subscribe(topic string) chan float64 {
	resp := make(chan float64, c.channelBuffer)
	select {
	case <-c.quit:
		close(resp)
	case c.sub <- newSub{topic: topic, resp: resp}:
	}
	return resp
}

func (c *Controller) Unsubscribe(ch chan float64) {
	select {
	case <-c.quit:
	case c.unsub <- ch:
	}
}

func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
}
