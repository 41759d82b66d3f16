// Package websocket pushes heat events to browser clients. A single Hub
// owns the client set; the heat service publishes through Hub.Broadcast and
// every connected client receives the JSON envelope defined in
// pkg/contracts/events.
package websocket
