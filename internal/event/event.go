package event

// Event đại diện cho một sự kiện thời gian thực trong hệ thống
type Event struct {
	Topic  string         // Ví dụ: "listing:123", "inbox:45"
	Type   string         // Loại sự kiện: new_bid, new_comment, listing_closed, chat_message
	Origin string         // Session id đã tạo ra sự kiện, rỗng nếu là sự kiện hệ thống
	Data   map[string]any // Dữ liệu sự kiện (tùy thuộc loại)
}

const (
	EventTypeNewBid        = "new_bid"        // Có lượt đặt giá mới được chấp nhận
	EventTypeNewComment    = "new_comment"    // Có bình luận mới trên listing
	EventTypeListingClosed = "listing_closed" // Listing đã kết thúc, có thông tin người thắng
	EventTypeChatMessage   = "chat_message"   // Tin nhắn chat mới trong inbox
)

// EventSender là interface cho đại diện cho server gửi sự kiện đến client
type EventSender interface {
	Register(topic string, client chan Event)
	Unregister(topic string, client chan Event)
	Broadcast(event Event)
	Run()
	Shutdown()
}
