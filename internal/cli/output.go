package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case ClaimResult:
		o.printClaimResult(v)
	case []Identity:
		o.printIdentities(v)
	case Room:
		o.printRoom(v)
	case []RoomSummary:
		o.printRoomList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// ClaimResult response type (matches API)
type ClaimResult struct {
	IdentityID string `json:"identity_id"`
}

// Identity response type
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

// Room response type
type Room struct {
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	HostID   string       `json:"host_id"`
	Started  bool         `json:"started"`
	Capacity int          `json:"capacity"`
	Members  []RoomMember `json:"members"`
}

// RoomMember response type
type RoomMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// RoomSummary response type
type RoomSummary struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	HostName    string `json:"host_name"`
	MemberCount int    `json:"member_count"`
	Started     bool   `json:"started"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printClaimResult(c ClaimResult) {
	fmt.Printf("Identity: %s\n", c.IdentityID)
}

func (o *Output) printIdentities(identities []Identity) {
	fmt.Printf("Identities (%d):\n", len(identities))
	for _, ident := range identities {
		status := "offline"
		if ident.Online {
			status = "online"
		}
		fmt.Printf("  - %s (%s) - %s\n", ident.Name, ident.ID, status)
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s (%s)\n", r.Name, r.Code)
	state := "waiting"
	if r.Started {
		state = "started"
	}
	fmt.Printf("State: %s\n", state)
	fmt.Printf("Members (%d/%d):\n", len(r.Members), r.Capacity)
	for _, m := range r.Members {
		hostStr := ""
		if m.ID == r.HostID {
			hostStr = " [host]"
		}
		readyStr := ""
		if m.Ready {
			readyStr = " [ready]"
		}
		fmt.Printf("  - %s (%s)%s%s\n", m.Name, m.ID, hostStr, readyStr)
	}
}

func (o *Output) printRoomList(rooms []RoomSummary) {
	fmt.Printf("Rooms (%d):\n", len(rooms))
	for _, r := range rooms {
		state := "waiting"
		if r.Started {
			state = "started"
		}
		fmt.Printf("  - %s (%s) - host %s, %d members, %s\n",
			r.Name, r.Code, r.HostName, r.MemberCount, state)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
