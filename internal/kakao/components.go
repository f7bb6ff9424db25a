package kakao

// Component is anything that can appear in template.outputs. The name is
// the JSON key Open Builder expects ("simpleText", "textCard", ...), the
// body its value.
type Component interface {
	component() (name string, body interface{})
}

// Button is a pressable element on cards and item cards.
type Button struct {
	Label       string                 `json:"label"`
	Action      string                 `json:"action"`
	MessageText string                 `json:"messageText,omitempty"`
	BlockID     string                 `json:"blockId,omitempty"`
	WebLinkURL  string                 `json:"webLinkUrl,omitempty"`
	PhoneNumber string                 `json:"phoneNumber,omitempty"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

// MessageButton builds a button that sends an utterance.
func MessageButton(label, messageText string) Button {
	return Button{Label: label, Action: "message", MessageText: messageText}
}

// BlockButton builds a button that jumps to an Open Builder block.
func BlockButton(label, blockID string, extra map[string]interface{}) Button {
	return Button{Label: label, Action: "block", BlockID: blockID, Extra: extra}
}

// WebLinkButton builds a button that opens a URL.
func WebLinkButton(label, url string) Button {
	return Button{Label: label, Action: "webLink", WebLinkURL: url}
}

// PhoneButton builds a button that dials a number.
func PhoneButton(label, number string) Button {
	return Button{Label: label, Action: "phone", PhoneNumber: number}
}

// SimpleText is a plain text bubble.
type SimpleText struct {
	Text string `json:"text"`
}

func (c SimpleText) component() (string, interface{}) { return "simpleText", c }

// SimpleImage shows a single image with alt text.
type SimpleImage struct {
	ImageURL string `json:"imageUrl"`
	AltText  string `json:"altText"`
}

func (c SimpleImage) component() (string, interface{}) { return "simpleImage", c }

// TextCard is a titled card with optional buttons.
type TextCard struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Buttons     []Button `json:"buttons,omitempty"`
}

func (c TextCard) component() (string, interface{}) { return "textCard", c }

// AddButton appends a button and returns the card for chaining.
func (c TextCard) AddButton(b Button) TextCard {
	c.Buttons = append(c.Buttons, b)
	return c
}

// Link attaches a URL to a list item.
type Link struct {
	Web string `json:"web,omitempty"`
}

// ListItem is one row of a list card.
type ListItem struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	ImageURL    string                 `json:"imageUrl,omitempty"`
	Link        *Link                  `json:"link,omitempty"`
	Action      string                 `json:"action,omitempty"`
	BlockID     string                 `json:"blockId,omitempty"`
	MessageText string                 `json:"messageText,omitempty"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

// ListHeader is the title row of a list card.
type ListHeader struct {
	Title string `json:"title"`
}

// ListCardMaxItems is the Open Builder limit on rows per list card when the
// card stands alone. Inside a carousel the limit drops to
// CarouselListCardMaxItems.
const (
	ListCardMaxItems         = 5
	CarouselListCardMaxItems = 4
)

// ListCard is a header plus up to five rows.
type ListCard struct {
	Header  ListHeader `json:"header"`
	Items   []ListItem `json:"items"`
	Buttons []Button   `json:"buttons,omitempty"`
}

func (c ListCard) component() (string, interface{}) { return "listCard", c }

// AddItem appends a row and returns the card for chaining.
func (c ListCard) AddItem(item ListItem) ListCard {
	c.Items = append(c.Items, item)
	return c
}

// ImageTitle is the image header of an item card.
type ImageTitle struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Item is one label/value row of an item card.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ItemCard renders label/value rows with an optional image title, head and
// buttons.
type ItemCard struct {
	ImageTitle *ImageTitle `json:"imageTitle,omitempty"`
	Head       *ListHeader `json:"head,omitempty"`
	ItemList   []Item      `json:"itemList"`
	Buttons    []Button    `json:"buttons,omitempty"`
}

func (c ItemCard) component() (string, interface{}) { return "itemCard", c }

// AddItem appends a row and returns the card for chaining.
func (c ItemCard) AddItem(title, description string) ItemCard {
	c.ItemList = append(c.ItemList, Item{Title: title, Description: description})
	return c
}

// AddButton appends a button and returns the card for chaining.
func (c ItemCard) AddButton(b Button) ItemCard {
	c.Buttons = append(c.Buttons, b)
	return c
}

// Carousel groups cards of a single type into a swipeable row. Open Builder
// allows at most ten cards per carousel.
type Carousel struct {
	CardType string
	Cards    []Component
}

// NewCarousel creates an empty carousel of the given card type
// ("textCard", "listCard", "itemCard").
func NewCarousel(cardType string) Carousel {
	return Carousel{CardType: cardType}
}

// AddCard appends a card. Cards must match the carousel's type; mixing
// types is rejected by the platform, so callers keep them homogeneous.
func (c Carousel) AddCard(card Component) Carousel {
	c.Cards = append(c.Cards, card)
	return c
}

// IsEmpty reports whether the carousel has no cards.
func (c Carousel) IsEmpty() bool { return len(c.Cards) == 0 }

func (c Carousel) component() (string, interface{}) {
	items := make([]interface{}, 0, len(c.Cards))
	for _, card := range c.Cards {
		_, body := card.component()
		items = append(items, body)
	}
	return "carousel", map[string]interface{}{
		"type":  c.CardType,
		"items": items,
	}
}

// QuickReply is a suggestion chip under the response.
type QuickReply struct {
	Label       string                 `json:"label"`
	Action      string                 `json:"action"`
	MessageText string                 `json:"messageText,omitempty"`
	BlockID     string                 `json:"blockId,omitempty"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}
