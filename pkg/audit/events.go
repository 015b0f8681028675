package audit

import "fmt"

// MessageEvent records an incoming user message
type MessageEvent struct {
	UserID   int64
	Username string
	ChatID   int64
	Intent   string
}

func (e MessageEvent) MessageID() string {
	return "message"
}

func (e MessageEvent) Message() string {
	who := e.Username
	if who == "" {
		who = fmt.Sprintf("user %d", e.UserID)
	}
	return fmt.Sprintf("%s sent a message (intent: %s)", who, e.Intent)
}

func (e MessageEvent) Severity() Severity {
	return SeverityInfo
}

func (e MessageEvent) Facility() int {
	return FacilityLocal0
}

func (e MessageEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDUser: {
			"id":       fmt.Sprintf("%d", e.UserID),
			"username": e.Username,
		},
		SDIDChat: {
			"id": fmt.Sprintf("%d", e.ChatID),
		},
		SDIDAction: {
			"operation": "message",
			"intent":    e.Intent,
		},
	}
}

// ViewEvent records a model-requested view execution
type ViewEvent struct {
	UserID       int64
	ViewName     string
	Success      bool
	ErrorMessage string
}

func (e ViewEvent) MessageID() string {
	return "view"
}

func (e ViewEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("user %d executed view %s", e.UserID, e.ViewName)
	}
	msg := fmt.Sprintf("user %d failed to execute view %s", e.UserID, e.ViewName)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ViewEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ViewEvent) Facility() int {
	return FacilityLocal0
}

func (e ViewEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDUser: {
			"id": fmt.Sprintf("%d", e.UserID),
		},
		SDIDSubject: {
			"view": e.ViewName,
		},
		SDIDAction: {
			"operation": "view",
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}

// AppointmentEvent records a booking attempt
type AppointmentEvent struct {
	UserID        int64
	AppointmentID int64
	Master        string
	Service       string
	Slot          string
	Success       bool
	ErrorMessage  string
}

func (e AppointmentEvent) MessageID() string {
	return "appointment"
}

func (e AppointmentEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("user %d booked %s with %s at %s", e.UserID, e.Service, e.Master, e.Slot)
	}
	msg := fmt.Sprintf("user %d tried to book %s with %s at %s", e.UserID, e.Service, e.Master, e.Slot)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AppointmentEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AppointmentEvent) Facility() int {
	return FacilityLocal0
}

func (e AppointmentEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDUser: {
			"id": fmt.Sprintf("%d", e.UserID),
		},
		SDIDSubject: {
			"master":  e.Master,
			"service": e.Service,
			"slot":    e.Slot,
		},
		SDIDAction: {
			"operation": "book",
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
		sd[SDIDSubject]["appointment"] = fmt.Sprintf("%d", e.AppointmentID)
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
