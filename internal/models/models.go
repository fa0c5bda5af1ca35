package models

// Role is the only authorization capability the shop knows about.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         Role   `gorm:"not null;default:user"    json:"role"`
}

type Item struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"not null"                 json:"name"`
	Price    float64 `gorm:"not null"                 json:"price"`
	Quantity uint    `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

// CartLine holds one (user, item) pair; adding the same item again
// increments Quantity instead of creating a second row.
type CartLine struct {
	ID       uint `gorm:"primaryKey"                  json:"id"`
	UserID   uint `gorm:"index;not null"              json:"user_id"`
	ItemID   uint `gorm:"not null"                    json:"item_id"`
	Quantity uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

// Session is the server-side record behind the session cookie. TokenHash is
// sha256 of the signed token, never the token itself.
type Session struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	TokenHash string `gorm:"unique;not null" json:"-"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Order struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	UserID    uint    `gorm:"index;not null" json:"user_id"`
	CreatedAt int64   `gorm:"not null"       json:"created_at"`
	Total     float64 `gorm:"not null"       json:"total"`
	Status    string  `gorm:"not null"       json:"status"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                  json:"id"`
	OrderID   uint    `gorm:"index;not null"              json:"order_id"`
	UserID    uint    `gorm:"index;not null"              json:"user_id"`
	ItemID    uint    `gorm:"not null"                    json:"item_id"`
	Quantity  uint    `gorm:"default:1;check:quantity>0"  json:"quantity"`
	UnitPrice float64 `gorm:"not null"                    json:"unit_price"`
}
