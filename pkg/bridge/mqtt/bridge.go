// Package mqtt bridges the command link to an MQTT broker.
package mqtt

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/rclink/pkg/link"
	"github.com/robotalks/rclink/pkg/rc"
)

// Bridge forwards raw command bytes between MQTT topics and a link:
//
//   <id>/cmd: commands to the vehicle, forwarded to Sender
//   <id>/msg: commands received from the vehicle
type Bridge struct {
	Queue  *Queue
	Codec  *rc.Codec
	Sender link.Sender
	ID     string
}

// NewBridge creates a Bridge.
func NewBridge(q *Queue, codec *rc.Codec, sender link.Sender, id string) *Bridge {
	return &Bridge{Queue: q, Codec: codec, Sender: sender, ID: id}
}

// CommandTopic is the topic for commands to the vehicle.
func (b *Bridge) CommandTopic() string {
	return b.ID + "/cmd"
}

// MessageTopic is the topic for commands from the vehicle.
func (b *Bridge) MessageTopic() string {
	return b.ID + "/msg"
}

// HandleCommand implements link.CommandHandler.
func (b *Bridge) HandleCommand(ctx context.Context, cmd rc.Command) {
	payload, err := b.Codec.Marshal(cmd)
	if err == nil {
		err = b.Queue.Publish(b.MessageTopic(), payload)
	}
	if err != nil {
		glog.Errorf("publish %s error: %v", cmd.Tag(), err)
	}
}

func (b *Bridge) handleMsg(topic string, payload []byte) {
	cmd, err := b.Codec.Decode(payload)
	if err != nil {
		glog.Warningf("drop MQTT command % x: %v", payload, err)
		return
	}
	if err = b.Sender.Send(cmd); err != nil {
		glog.Errorf("forward %s error: %v", cmd.Tag(), err)
	}
}

// Run implements Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	sub, err := b.Queue.Subscribe(b.CommandTopic(), b.handleMsg)
	if err != nil {
		return err
	}
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}
