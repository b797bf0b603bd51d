package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Sepetler Redis'te cart ID başına tek JSON blob olarak tutulur.
// Kalıcı değildir; TTL dolunca sepet kaybolur.
const cartTTL = 24 * time.Hour

type Client struct {
	rdb *redis.Client
}

type Item struct {
	MenuItemID uint    `json:"menu_item_id"`
	VendorID   uint    `json:"vendor_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	ImageURL   string  `json:"image_url"`
	Quantity   int     `json:"quantity"`
}

type Cart struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("Redis URL çözümlenemedi: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Bağlantı testi
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis bağlantısı kurulamadı: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}

// Get: bilinmeyen cart ID hata değil, boş sepettir.
func (c *Client) Get(ctx context.Context, cartID string) (*Cart, error) {
	val, err := c.rdb.Get(ctx, cartKey(cartID)).Result()
	if err != nil {
		if err == redis.Nil {
			return &Cart{Items: []Item{}}, nil
		}
		return nil, fmt.Errorf("sepet okunamadı: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return nil, fmt.Errorf("sepet çözümlenemedi: %w", err)
	}

	return &cart, nil
}

func (c *Client) Save(ctx context.Context, cartID string, cart *Cart) error {
	cart.UpdatedAt = time.Now()
	jsonData, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("sepet serileştirilemedi: %w", err)
	}

	return c.rdb.Set(ctx, cartKey(cartID), jsonData, cartTTL).Err()
}

func (c *Client) Delete(ctx context.Context, cartID string) error {
	return c.rdb.Del(ctx, cartKey(cartID)).Err()
}
