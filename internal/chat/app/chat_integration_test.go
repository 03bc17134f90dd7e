package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"

	"marketplace_chat_service/internal/chat/domain"
	"marketplace_chat_service/internal/chat/repository"
	"marketplace_chat_service/pkg/database"
	"marketplace_chat_service/pkg/logger"
	testtool "marketplace_chat_service/pkg/test_tool"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
)

// **測試用的容器**
var mongoDB *database.MongoDB
var convRepo repository.ConversationRepository
var conversationUC ConversationUseCase
var messageUC MessageUseCase

// stubDirectory 測試用的 member / listing 目錄
type stubDirectory struct {
	listings map[string]*domain.ListingInfo
}

func (s *stubDirectory) ResolveParticipant(ctx context.Context, memberID string) (*domain.ParticipantInfo, error) {
	return &domain.ParticipantInfo{ID: memberID, UserName: "user-" + memberID}, nil
}

func (s *stubDirectory) FindListing(ctx context.Context, listingID string) (*domain.ListingInfo, error) {
	return s.listings[listingID], nil
}

// **TestMain 初始化測試環境**
func TestMain(m *testing.M) {
	ctx := context.Background()
	logger.SetNewNop()

	// **啟動 MongoDB**
	mongoContainer, mongoHost, mongoPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "mongo:latest",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start MongoDB container: %v", err)
	}
	fmt.Printf("✅ MongoDB running at %s:%s\n", mongoHost, mongoPort)

	mongoDB, err = database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    fmt.Sprintf("mongodb://%s:%s", mongoHost, mongoPort),
		RetryCount:    5,
		RetryInterval: 5,
	}, "test_chat_db")
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// **初始化 Repository 與 UseCases**
	convRepo = repository.NewMongoConversationRepository(mongoDB.Database)
	if err := convRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Failed to ensure indexes: %v", err)
	}

	directory := &stubDirectory{
		listings: map[string]*domain.ListingInfo{
			"listing-1": {ID: "listing-1", Title: "Road bike", Price: 120, Status: domain.ListingStatusAvailable},
		},
	}
	conversationUC = NewConversationUseCase(convRepo, directory, directory, nil)
	messageUC = NewMessageUseCase(convRepo, directory, directory, nil)

	// **執行測試**
	code := m.Run()

	// **清理測試環境**
	mongoDB.Close(ctx)
	_ = mongoContainer.Terminate(ctx)

	os.Exit(code)
}

// 併發呼叫 GetOrCreate，同一個 pair 只能產生一個對話
func TestConcurrentGetOrCreate(t *testing.T) {
	ctx := context.Background()
	const callers = 10

	ids := make([]string, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			// 一半從 buyer 端發起，一半從 seller 端發起
			a, b := "race-buyer", "race-seller"
			if i%2 == 1 {
				a, b = b, a
			}
			view, err := conversationUC.GetOrCreate(ctx, a, b, "")
			assert.NoError(t, err)
			ids[i] = view.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	// 資料庫裡正好一份文件，且 participants 是 canonical 順序
	count, err := mongoDB.Database.Collection("conversations").CountDocuments(ctx, bson.M{
		"participants": "race-buyer",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	pair, _ := domain.NewParticipantPair("race-seller", "race-buyer")
	stored, err := convRepo.FindByParticipants(ctx, pair)
	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, pair.Members(), stored.Participants)
	assert.Equal(t, pair.Key(), stored.PairKey)
}

// 完整生命週期：建立 → 傳訊 → 已讀 → 分頁 → 刪除
func TestConversationLifecycle(t *testing.T) {
	ctx := context.Background()

	created, err := conversationUC.GetOrCreate(ctx, "life-buyer", "life-seller", "listing-1")
	assert.NoError(t, err)
	assert.NotNil(t, created.Listing)
	assert.Equal(t, "Road bike", created.Listing.Title)

	// 再呼叫一次回同一個對話
	again, err := conversationUC.GetOrCreate(ctx, "life-seller", "life-buyer", "")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	// buyer 發三則，seller 發一則
	for i := 0; i < 3; i++ {
		_, err := messageUC.Append(ctx, created.ID, "life-buyer", fmt.Sprintf("buyer message %d", i+1))
		assert.NoError(t, err)
	}
	view, err := messageUC.Append(ctx, created.ID, "life-seller", "seller reply")
	assert.NoError(t, err)
	assert.Equal(t, "seller reply", view.LastMessage.Content)

	// seller 還沒讀 buyer 的三則
	sellerView, err := conversationUC.GetByID(ctx, created.ID, "life-seller")
	assert.NoError(t, err)
	assert.Equal(t, 0, sellerView.UnreadCount) // GetByID 已順便標為已讀

	// buyer 有一則未讀，標記後歸零
	assert.NoError(t, messageUC.MarkRead(ctx, created.ID, "life-buyer"))
	assert.NoError(t, messageUC.MarkRead(ctx, created.ID, "life-buyer")) // 重複呼叫無害

	buyerView, err := conversationUC.GetByID(ctx, created.ID, "life-buyer")
	assert.NoError(t, err)
	assert.Equal(t, 0, buyerView.UnreadCount)

	// 尾端分頁：page 1 是最新兩則
	page1, total, err := messageUC.ListMessages(ctx, created.ID, "life-buyer", 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, page1, 2)
	assert.Equal(t, "seller reply", page1[1].Content)

	page3, _, err := messageUC.ListMessages(ctx, created.ID, "life-buyer", 3, 2)
	assert.NoError(t, err)
	assert.Empty(t, page3)

	// 非參與者一律拒絕
	_, err = messageUC.Append(ctx, created.ID, "intruder", "let me in")
	assert.Error(t, err)
	_, err = conversationUC.GetByID(ctx, created.ID, "intruder")
	assert.Error(t, err)

	// 軟刪除後列表看不到，文件仍在
	assert.NoError(t, conversationUC.Deactivate(ctx, created.ID, "life-buyer"))
	views, listTotal, err := conversationUC.ListForMember(ctx, "life-buyer", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), listTotal)
	assert.Empty(t, views)

	count, err := mongoDB.Database.Collection("conversations").CountDocuments(ctx, bson.M{"_id": created.ID})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// 舊資料反序儲存時，GetOrCreate 會就地修復
func TestLegacyOrderingSelfHeal(t *testing.T) {
	ctx := context.Background()

	// 模擬歷史資料：participants 反序、沒有 pair_key
	_, err := mongoDB.Database.Collection("conversations").InsertOne(ctx, bson.M{
		"_id":           "legacy-conv",
		"participants":  []string{"legacy-z", "legacy-a"},
		"messages":      []bson.M{},
		"last_activity": int64(1),
		"is_active":     true,
	})
	assert.NoError(t, err)

	view, err := conversationUC.GetOrCreate(ctx, "legacy-a", "legacy-z", "")
	assert.NoError(t, err)
	assert.Equal(t, "legacy-conv", view.ID)

	var doc struct {
		Participants []string `bson:"participants"`
		PairKey      string   `bson:"pair_key"`
	}
	err = mongoDB.Database.Collection("conversations").
		FindOne(ctx, bson.M{"_id": "legacy-conv"}).Decode(&doc)
	assert.NoError(t, err)
	assert.Equal(t, []string{"legacy-a", "legacy-z"}, doc.Participants)
	assert.Equal(t, "legacy-a:legacy-z", doc.PairKey)
}
