package live

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

// Event types pushed to connected back-office dashboards.
const (
	EventOrderUpdate       = "order_update"
	EventReservationUpdate = "reservation_update"
	EventTableUpdate       = "table_update"
	EventStaffNotif        = "staff_notification"
	EventPaymentUpdate     = "payment_update"
	EventDashboardUpdate   = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every dashboard client (staff, manager, admin) keyed by role.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades the connection and parks it in the hub until it closes.
// Auth happened in middleware; the role is read from the context.
func Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade failed: %v", err)
		return
	}

	role := c.GetString("role")
	registerClient(conn, role)
	defer unregisterClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func registerClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

func unregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderUpdate pushes an order change to all clients.
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

// BroadcastReservationUpdate pushes a reservation change to all clients.
func BroadcastReservationUpdate(reservation models.Reservation) {
	broadcast(Message{Event: EventReservationUpdate, Data: reservation})
}

// BroadcastTableUpdate pushes a table availability change.
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

// BroadcastPaymentUpdate pushes a payment status change.
func BroadcastPaymentUpdate(payment models.Payment) {
	broadcast(Message{Event: EventPaymentUpdate, Data: payment})
}

// BroadcastStaffNotification pushes a plain text notice.
func BroadcastStaffNotification(text string) {
	broadcast(Message{Event: EventStaffNotif, Data: text})
}

// BroadcastMessage pushes an arbitrary event.
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("broadcast marshal failed: %v", err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
