package store

import (
	"github.com/groupcart/order-collector/internal/domain"
)

// Document is the persisted form of the whole store: flat arrays of records
// plus a single meta record. The layout is deliberately flat (no index maps)
// so the file stays hand-editable for recovery.
type Document struct {
	Users          []UserRecord         `json:"users"`
	Products       []ProductRecord      `json:"products"`
	Orders         []OrderRecord        `json:"orders"`
	ArchivedOrders []OrderRecord        `json:"archivedOrders"`
	Registrations  []RegistrationRecord `json:"registrations"`
	Meta           MetaRecord           `json:"meta"`
}

// UserRecord is the wire form of a directory entry.
type UserRecord struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// ProductRecord is the wire form of a catalog entry.
type ProductRecord struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Link      string `json:"link"`
}

// OrderRecord is the wire form of an order line.
type OrderRecord struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Count     int   `json:"count"`
	Done      bool  `json:"done"`
}

// RegistrationRecord is the wire form of an attempt/blacklist entry.
type RegistrationRecord struct {
	UserID      int64 `json:"user_id"`
	Attempts    int   `json:"attempts"`
	Blacklisted bool  `json:"blacklisted"`
}

// MetaRecord holds the collection gate and the shared registration password.
type MetaRecord struct {
	CollectionOpen bool    `json:"collectionOpen"`
	AuthPassword   *string `json:"authPassword"`
	SchemaVersion  int     `json:"schemaVersion"`
}

const schemaVersion = 2

// document builds the wire form from in-memory state. Callers must hold at
// least the read lock.
func (s *Store) document() Document {
	doc := Document{
		Users:          make([]UserRecord, 0, len(s.users)),
		Products:       make([]ProductRecord, 0, len(s.products)),
		Orders:         make([]OrderRecord, 0, len(s.orders)),
		ArchivedOrders: make([]OrderRecord, 0, len(s.archived)),
		Registrations:  make([]RegistrationRecord, 0, len(s.registrations)),
		Meta: MetaRecord{
			CollectionOpen: s.collectionOpen,
			AuthPassword:   s.password,
			SchemaVersion:  schemaVersion,
		},
	}
	for _, u := range s.users {
		doc.Users = append(doc.Users, UserRecord{UserID: u.ID, Name: u.Name, IsAdmin: u.IsAdmin})
	}
	for _, p := range s.products {
		doc.Products = append(doc.Products, ProductRecord{ProductID: p.ID, Title: p.Title, Price: p.Price, Link: p.Link})
	}
	doc.Orders = appendOrderRecords(doc.Orders, s.orders)
	doc.ArchivedOrders = appendOrderRecords(doc.ArchivedOrders, s.archived)
	for _, r := range s.registrations {
		doc.Registrations = append(doc.Registrations, RegistrationRecord{
			UserID:      r.UserID,
			Attempts:    r.Attempts,
			Blacklisted: r.Blacklisted,
		})
	}
	return doc
}

func appendOrderRecords(dst []OrderRecord, orders []domain.Order) []OrderRecord {
	for _, o := range orders {
		dst = append(dst, OrderRecord{
			UserID:    o.UserID,
			ProductID: o.ProductID,
			Count:     o.Quantity,
			Done:      o.Done,
		})
	}
	return dst
}

// applyDocument replaces in-memory state with the decoded document contents.
// Records with a broken identity or a non-positive count are skipped rather
// than rejected, so a partially hand-edited file still loads.
func (s *Store) applyDocument(doc Document) {
	s.users = s.users[:0]
	s.products = s.products[:0]
	s.orders = s.orders[:0]
	s.archived = s.archived[:0]
	s.registrations = s.registrations[:0]

	for _, rec := range doc.Users {
		if rec.UserID == 0 {
			continue
		}
		s.users = append(s.users, domain.User{ID: rec.UserID, Name: rec.Name, IsAdmin: rec.IsAdmin})
	}
	for _, rec := range doc.Products {
		if rec.ProductID == 0 {
			continue
		}
		s.products = append(s.products, domain.Product{ID: rec.ProductID, Title: rec.Title, Price: rec.Price, Link: rec.Link})
	}
	s.orders = appendOrders(s.orders, doc.Orders)
	s.archived = appendOrders(s.archived, doc.ArchivedOrders)
	for _, rec := range doc.Registrations {
		if rec.UserID == 0 {
			continue
		}
		s.registrations = append(s.registrations, domain.Registration{
			UserID:      rec.UserID,
			Attempts:    rec.Attempts,
			Blacklisted: rec.Blacklisted,
		})
	}
	s.collectionOpen = doc.Meta.CollectionOpen
	s.password = doc.Meta.AuthPassword
}

func appendOrders(dst []domain.Order, records []OrderRecord) []domain.Order {
	for _, rec := range records {
		if rec.UserID == 0 || rec.ProductID == 0 || rec.Count < 1 {
			continue
		}
		dst = append(dst, domain.Order{
			UserID:    rec.UserID,
			ProductID: rec.ProductID,
			Quantity:  rec.Count,
			Done:      rec.Done,
		})
	}
	return dst
}
