package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pcparts-backend/internal/models"
)

// MongoStore backs the API with MongoDB collections: users, inventory,
// carts, orders.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		db:     client.Database(dbName),
	}

	// Duplicate usernames are rejected at the database level rather than
	// with a racy find-then-insert.
	_, err = s.users().Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create username index: %w", err)
	}

	return s, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) users() *mongo.Collection     { return s.db.Collection("users") }
func (s *MongoStore) inventory() *mongo.Collection { return s.db.Collection("inventory") }
func (s *MongoStore) carts() *mongo.Collection     { return s.db.Collection("carts") }
func (s *MongoStore) orders() *mongo.Collection    { return s.db.Collection("orders") }

// ----- Users -----

func (s *MongoStore) InsertUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	_, err := s.users().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// ----- Inventory -----

func (s *MongoStore) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	cur, err := s.inventory().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	items := []models.InventoryItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	return items, nil
}

func (s *MongoStore) FindItem(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.inventory().FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return &item, nil
}

func (s *MongoStore) InsertItem(ctx context.Context, item *models.InventoryItem) error {
	item.ID = primitive.NewObjectID()
	if _, err := s.inventory().InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateItem(ctx context.Context, id primitive.ObjectID, update ItemUpdate) error {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Brand != nil {
		set["brand"] = *update.Brand
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Stock != nil {
		set["stock"] = *update.Stock
	}
	if len(set) == 0 {
		return nil
	}
	res, err := s.inventory().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.inventory().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (s *MongoStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.inventory().UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the item is gone or it no longer has enough stock.
		if _, ferr := s.FindItem(ctx, id); ferr != nil {
			return ferr
		}
		return ErrInsufficientStock
	}
	return nil
}

func (s *MongoStore) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := s.inventory().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	return nil
}

// ----- Carts -----

func (s *MongoStore) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return &cart, nil
}

func (s *MongoStore) UpsertCart(ctx context.Context, userID primitive.ObjectID, items []models.CartLine) error {
	_, err := s.carts().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": items}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

// ----- Orders -----

func (s *MongoStore) InsertOrder(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	if _, err := s.orders().InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *MongoStore) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cur, err := s.orders().Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// ----- Analytics -----

func (s *MongoStore) Analytics(ctx context.Context) (*models.AnalyticsReport, error) {
	report := &models.AnalyticsReport{
		Bestsellers:     []models.ItemSales{},
		SalesByCategory: []models.CategorySales{},
		MonthlySales:    []models.MonthlySales{},
	}

	overviewCur, err := s.orders().Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalRevenue": bson.M{"$sum": "$totalAmount"},
			"totalOrders":  bson.M{"$sum": 1},
			"averageOrder": bson.M{"$avg": "$totalAmount"},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate overview: %w", err)
	}
	var overview []models.AnalyticsOverview
	if err := overviewCur.All(ctx, &overview); err != nil {
		return nil, fmt.Errorf("failed to decode overview: %w", err)
	}
	if len(overview) > 0 {
		report.Overview = overview[0]
	}

	bestCur, err := s.orders().Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       "$items.name",
			"totalSold": bson.M{"$sum": "$items.quantity"},
			"revenue":   bson.M{"$sum": "$items.subtotal"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalSold", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 10}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bestsellers: %w", err)
	}
	if err := bestCur.All(ctx, &report.Bestsellers); err != nil {
		return nil, fmt.Errorf("failed to decode bestsellers: %w", err)
	}

	catCur, err := s.orders().Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       "$items.category",
			"totalSold": bson.M{"$sum": "$items.quantity"},
			"revenue":   bson.M{"$sum": "$items.subtotal"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category sales: %w", err)
	}
	if err := catCur.All(ctx, &report.SalesByCategory); err != nil {
		return nil, fmt.Errorf("failed to decode category sales: %w", err)
	}

	monthCur, err := s.orders().Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$orderDate"},
				"month": bson.M{"$month": "$orderDate"},
			},
			"revenue": bson.M{"$sum": "$totalAmount"},
			"orders":  bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: -1},
			{Key: "_id.month", Value: -1},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly sales: %w", err)
	}
	var monthly []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Revenue float64 `bson:"revenue"`
		Orders  int     `bson:"orders"`
	}
	if err := monthCur.All(ctx, &monthly); err != nil {
		return nil, fmt.Errorf("failed to decode monthly sales: %w", err)
	}
	for _, m := range monthly {
		report.MonthlySales = append(report.MonthlySales, models.MonthlySales{
			Year:    m.ID.Year,
			Month:   m.ID.Month,
			Revenue: m.Revenue,
			Orders:  m.Orders,
		})
	}

	return report, nil
}
