package core

const (
	AppName          = "ChatLens"
	AppUserAgent     = "ChatLens/0.1"
	AppRepositoryURL = "https://github.com/sandevgo/chatlens"
	AppVersion       = "0.1.0"
)

// DateKeyLayout is the calendar-day bucket key, DD/MM/YYYY.
const DateKeyLayout = "02/01/2006"

type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformWhatsApp Platform = "whatsapp"
)

func (p Platform) Valid() bool {
	return p == PlatformTelegram || p == PlatformWhatsApp
}

// Message is a single captured chat message. Timestamp is unix milliseconds.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp int64  `json:"timestamp"`
	ChatID    string `json:"chatId"`
	ReplyTo   string `json:"replyTo,omitempty"`
}

type ConversationContext struct {
	ChatID   string   `json:"chatId"`
	Platform Platform `json:"platform"`
	Title    string   `json:"title"`
}

type PointType string

const (
	PointAssignment     PointType = "assignment"
	PointTechnicalIssue PointType = "technical_issue"
	PointQuestion       PointType = "question"
	PointResponse       PointType = "response"
	PointOther          PointType = "other"
)

// Attributes holds values extracted by the classifier. Empty means none.
type Attributes struct {
	Assignment string `json:"assignment,omitempty"`
	Tool       string `json:"tool,omitempty"`
}

// KeyPoint is a classified message. It lives for the duration of one query.
type KeyPoint struct {
	Type         PointType            `json:"type"`
	Text         string               `json:"text"`
	Sender       string               `json:"sender"`
	ReplyTo      string               `json:"replyTo,omitempty"`
	Attributes   Attributes           `json:"attributes"`
	IsResponse   bool                 `json:"isResponse"`
	Conversation *ConversationContext `json:"-"`
}

// Group is a main key point plus the points related to it.
// Points[0] is always Main.
type Group struct {
	Main   KeyPoint
	Points []KeyPoint
}

// Responses returns the response points attached to the group, the
// main point excluded.
func (g Group) Responses() []KeyPoint {
	var res []KeyPoint
	for i, p := range g.Points {
		if i > 0 && p.IsResponse {
			res = append(res, p)
		}
	}
	return res
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the acknowledgment shape returned to every inbound caller.
type Result struct {
	Status   Status `json:"status"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

func Success(response string) Result {
	return Result{Status: StatusSuccess, Response: response}
}

func Failure(err error) Result {
	return Result{Status: StatusError, Error: err.Error()}
}

func (r Result) OK() bool {
	return r.Status == StatusSuccess
}
