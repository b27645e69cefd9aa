package spreadsheet

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"cellar/grid"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for local dev
	},
}

// Broadcaster receives every cell update the server pushes to its
// websocket clients, e.g. a feed.Publisher.
type Broadcaster interface {
	Publish(v interface{}) error
}

// Server exposes a sheet over websocket: clients send edits, the server
// answers with updates for the edited cell and everything that depends
// on it. The sheet itself is single-threaded, so every access goes
// through the server's lock.
type Server struct {
	Feed Broadcaster

	mu      sync.Mutex
	sheet   *Sheet
	clients map[*websocket.Conn]bool
}

func NewServer() *Server {
	s := &Server{
		sheet:   NewSheet(),
		clients: make(map[*websocket.Conn]bool),
	}
	s.populateDemo()
	return s
}

type UpdateRequest struct {
	Type string `json:"type"`
	Pos  string `json:"pos,omitempty"`
	Text string `json:"text,omitempty"`
}

type UpdateResponse struct {
	Type    string `json:"type"`
	Pos     string `json:"pos,omitempty"`
	Text    string `json:"text,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) mustSetCell(ref, text string) {
	if err := s.sheet.SetCell(grid.FromString(ref), text); err != nil {
		log.Printf("set cell %s failed: %v", ref, err)
	}
}

func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	for _, pos := range s.sheet.Positions() {
		if err := conn.WriteJSON(s.cellResponse(pos)); err != nil {
			log.Printf("initial write failed: %v", err)
			break
		}
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		var req UpdateRequest
		if err := conn.ReadJSON(&req); err != nil {
			break
		}

		s.mu.Lock()
		switch req.Type {
		case "set_cell":
			s.handleSet(conn, req)
		case "clear_cell":
			s.handleClear(conn, req)
		case "clear":
			s.sheet = NewSheet()
			s.broadcastAll()
		case "load_demo":
			s.sheet = NewSheet()
			s.populateDemo()
			s.broadcastAll()
		}
		s.mu.Unlock()
	}
}

func (s *Server) handleSet(conn *websocket.Conn, req UpdateRequest) {
	pos := grid.FromString(req.Pos)
	if err := s.sheet.SetCell(pos, req.Text); err != nil {
		s.sendError(conn, req.Pos, err)
		return
	}
	s.broadcastCells(append([]grid.Position{pos}, s.sheet.DependentsOf(pos)...))
}

func (s *Server) handleClear(conn *websocket.Conn, req UpdateRequest) {
	pos := grid.FromString(req.Pos)
	dependents := s.sheet.DependentsOf(pos)
	if err := s.sheet.ClearCell(pos); err != nil {
		s.sendError(conn, req.Pos, err)
		return
	}
	s.broadcastCells(append([]grid.Position{pos}, dependents...))
}

func (s *Server) sendError(conn *websocket.Conn, ref string, err error) {
	resp := UpdateResponse{Type: "error", Pos: ref, Message: err.Error()}
	if werr := conn.WriteJSON(resp); werr != nil {
		log.Printf("error write failed: %v", werr)
	}
}

// broadcastAll pushes a reset marker followed by the full sheet state.
// Caller must hold s.mu.
func (s *Server) broadcastAll() {
	s.broadcast(UpdateResponse{Type: "reset"})
	s.broadcastCells(s.sheet.Positions())
}

func (s *Server) broadcastCells(positions []grid.Position) {
	for _, pos := range positions {
		s.broadcast(s.cellResponse(pos))
	}
}

func (s *Server) broadcast(resp UpdateResponse) {
	if s.Feed != nil {
		if err := s.Feed.Publish(resp); err != nil {
			log.Printf("feed publish failed: %v", err)
		}
	}
	for client := range s.clients {
		if err := client.WriteJSON(resp); err != nil {
			log.Printf("broadcast write failed: %v", err)
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}

func (s *Server) cellResponse(pos grid.Position) UpdateResponse {
	resp := UpdateResponse{Type: "cell", Pos: pos.String()}
	cell, err := s.sheet.GetCell(pos)
	if err != nil || cell == nil {
		return resp
	}
	resp.Text = cell.GetText()
	resp.Value = cell.GetValue().String()
	return resp
}

// populateDemo seeds a small arithmetic walkthrough sheet.
func (s *Server) populateDemo() {
	s.mustSetCell("A1", "cellar")
	s.mustSetCell("B1", "'=reactive cells")

	s.mustSetCell("A3", "1. Math")
	s.mustSetCell("B3", "10")
	s.mustSetCell("C3", "32")
	s.mustSetCell("D3", "=B3+C3")
	s.mustSetCell("E3", "<- Sum")

	s.mustSetCell("A5", "2. Chain")
	s.mustSetCell("B5", "1")
	s.mustSetCell("C5", "=B5+1")
	s.mustSetCell("D5", "=C5*2")
	s.mustSetCell("E5", "=D5*10")

	s.mustSetCell("A7", "3. Errors")
	s.mustSetCell("B7", "=1/0")
	s.mustSetCell("C7", "oops")
	s.mustSetCell("D7", "=C7+1")

	s.mustSetCell("A9", "4. Column sums")
	for row := 10; row <= 13; row++ {
		s.mustSetCell(fmt.Sprintf("B%d", row), fmt.Sprintf("%d", row))
	}
	s.mustSetCell("B14", "=B10+B11+B12+B13")
}

// Start serves the websocket endpoint on the given address.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)

	log.Printf("Starting spreadsheet server at http://%s", addr)
	return http.ListenAndServe(addr, mux)
}
