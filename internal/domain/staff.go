package domain

import "time"

// SubUser is a staff account limited to order management.
type SubUser struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	Name        string    `json:"name"`
	Permissions string    `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	Active      bool      `json:"is_active"`
}

const PermissionOrdersOnly = "orders_only"

type SubUserPatch struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Active   *bool   `json:"is_active,omitempty"`
}

func (p SubUserPatch) Apply(u *SubUser) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Active != nil {
		u.Active = *p.Active
	}
}

type SocialMediaLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Active   bool   `json:"is_active"`
}

type OpeningHours struct {
	Day       string `json:"day"`
	Open      bool   `json:"is_open"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type StoreSettings struct {
	SocialMediaLinks []SocialMediaLink `json:"social_media_links"`
	OpeningHours     []OpeningHours    `json:"opening_hours"`
	StoreDescription string            `json:"store_description"`
}

func DefaultStoreSettings() StoreSettings {
	weekday := func(day string) OpeningHours {
		return OpeningHours{Day: day, Open: true, OpenTime: "08:00", CloseTime: "18:00"}
	}
	return StoreSettings{
		SocialMediaLinks: []SocialMediaLink{},
		OpeningHours: []OpeningHours{
			weekday("monday"),
			weekday("tuesday"),
			weekday("wednesday"),
			weekday("thursday"),
			weekday("friday"),
			{Day: "saturday", Open: true, OpenTime: "09:00", CloseTime: "17:00"},
			{Day: "sunday", Open: false, OpenTime: "09:00", CloseTime: "17:00"},
		},
		StoreDescription: "Fresh • Local • Artisan",
	}
}

type StoreSettingsPatch struct {
	SocialMediaLinks *[]SocialMediaLink `json:"social_media_links,omitempty"`
	OpeningHours     *[]OpeningHours    `json:"opening_hours,omitempty"`
	StoreDescription *string            `json:"store_description,omitempty"`
}

func (p StoreSettingsPatch) Apply(s *StoreSettings) {
	if p.SocialMediaLinks != nil {
		s.SocialMediaLinks = *p.SocialMediaLinks
	}
	if p.OpeningHours != nil {
		s.OpeningHours = *p.OpeningHours
	}
	if p.StoreDescription != nil {
		s.StoreDescription = *p.StoreDescription
	}
}

// NotificationSettings gates which events the dispatcher forwards.
type NotificationSettings struct {
	OrderNotifications     bool `json:"order_notifications"`
	InventoryNotifications bool `json:"inventory_notifications"`
	GreetingNotifications  bool `json:"greeting_notifications"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		OrderNotifications:     true,
		InventoryNotifications: true,
		GreetingNotifications:  true,
	}
}

type NotificationSettingsPatch struct {
	OrderNotifications     *bool `json:"order_notifications,omitempty"`
	InventoryNotifications *bool `json:"inventory_notifications,omitempty"`
	GreetingNotifications  *bool `json:"greeting_notifications,omitempty"`
}

func (p NotificationSettingsPatch) Apply(s *NotificationSettings) {
	if p.OrderNotifications != nil {
		s.OrderNotifications = *p.OrderNotifications
	}
	if p.InventoryNotifications != nil {
		s.InventoryNotifications = *p.InventoryNotifications
	}
	if p.GreetingNotifications != nil {
		s.GreetingNotifications = *p.GreetingNotifications
	}
}
