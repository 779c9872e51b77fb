package models

import "time"

// CartMode is the terminal action that produced an order line
type CartMode string

const (
	CartModeCart   CartMode = "cart"
	CartModeBuyNow CartMode = "buy_now"
)

// DesignParameters carries what production needs to reproduce a custom piece
type DesignParameters struct {
	AssetFileName  string     `json:"assetFileName,omitempty"`
	AssetMediaType string     `json:"assetMediaType,omitempty"`
	AssetDataURI   string     `json:"assetDataUri,omitempty"`
	ArchivedAsset  string     `json:"archivedAsset,omitempty"` // archive location, when archived
	Instructions   string     `json:"instructions,omitempty"`
	Dimensions     Dimensions `json:"dimensions"`
	Color          string     `json:"color,omitempty"`
	LightMode      LightMode  `json:"lightMode,omitempty"`
}

// OrderLine is a fully resolved configuration handed to the cart
type OrderLine struct {
	LineID      string            `json:"lineId"`
	SessionID   string            `json:"sessionId"`
	ProductID   int64             `json:"productId"`
	ProductSlug string            `json:"productSlug"`
	ProductName string            `json:"productName"`
	Family      ProductFamily     `json:"family"`
	Finish      Finish            `json:"finish"`
	Size        string            `json:"size,omitempty"`
	Custom      bool              `json:"custom"`
	Dimensions  Dimensions        `json:"dimensions"`
	Color       string            `json:"color,omitempty"`
	Variant     string            `json:"variant,omitempty"`
	LightMode   LightMode         `json:"lightMode,omitempty"`
	Tier        PricingTier       `json:"tier,omitempty"`
	Quantity    int               `json:"quantity"`
	UnitPrice   Price             `json:"unitPrice"`
	LineTotal   Price             `json:"lineTotal"`
	Image       string            `json:"image"`
	Design      *DesignParameters `json:"design,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// CartReceipt is what the cart collaborator returns for an accepted line
type CartReceipt struct {
	LineID   string   `json:"lineId"`
	Mode     CartMode `json:"mode"`
	CartID   int64    `json:"cartId"`
	Attempts int      `json:"attempts"`
}
