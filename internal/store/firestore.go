package store

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// Collection layout: accounts/{account} holds the meta fields, with one
// subcollection per entity kind keyed by the decimal id.
const (
	accountsCollection     = "accounts"
	transactionsCollection = "transactions"
	rulesCollection        = "categoryRules"
	goalsCollection        = "savingGoals"
	requestsCollection     = "paymentRequests"
	messagesCollection     = "messages"
)

type firestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *firestoreStore {
	return &firestoreStore{client: client}
}

func (s *firestoreStore) accountDoc(account string) *firestore.DocumentRef {
	return s.client.Collection(accountsCollection).Doc(account)
}

func (s *firestoreStore) collection(account, name string) *firestore.CollectionRef {
	return s.accountDoc(account).Collection(name)
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

type accountDoc struct {
	HighestBalance string           `firestore:"highestBalance"`
	Sequences      models.Sequences `firestore:"sequences"`
}

type transactionDoc struct {
	ID           int64            `firestore:"id"`
	Date         time.Time        `firestore:"date"`
	Amount       string           `firestore:"amount"`
	Type         string           `firestore:"type"`
	ExternalIBAN string           `firestore:"externalIBAN"`
	Description  string           `firestore:"description"`
	Category     *models.Category `firestore:"category"`
	SavingGoalID *int64           `firestore:"savingGoalId"`
}

type ruleDoc struct {
	ID             int64           `firestore:"id"`
	Description    string          `firestore:"description"`
	IBAN           string          `firestore:"iban"`
	Type           string          `firestore:"type"`
	Category       models.Category `firestore:"category"`
	ApplyOnHistory bool            `firestore:"applyOnHistory"`
}

type goalDoc struct {
	ID                 int64     `firestore:"id"`
	Name               string    `firestore:"name"`
	Goal               string    `firestore:"goal"`
	SavePerMonth       string    `firestore:"savePerMonth"`
	MinBalanceRequired string    `firestore:"minBalanceRequired"`
	Balance            string    `firestore:"balance"`
	Completed          bool      `firestore:"completed"`
	CreatedAt          time.Time `firestore:"createdAt"`
}

type requestDoc struct {
	ID               int64     `firestore:"id"`
	Description      string    `firestore:"description"`
	DueDate          time.Time `firestore:"dueDate"`
	Amount           string    `firestore:"amount"`
	NumberOfRequests int       `firestore:"numberOfRequests"`
	Filled           bool      `firestore:"filled"`
	Expired          bool      `firestore:"expired"`
	Transactions     []int64   `firestore:"transactions"`
	CreatedAt        time.Time `firestore:"createdAt"`
}

type messageDoc struct {
	ID      int64     `firestore:"id"`
	Message string    `firestore:"message"`
	Date    time.Time `firestore:"date"`
	Read    bool      `firestore:"read"`
	Type    string    `firestore:"type"`
}

func (s *firestoreStore) Load(ctx context.Context, account string) (*models.Ledger, error) {
	l := models.NewLedger(account)

	snap, err := s.accountDoc(account).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return l, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to get account", err)
	}
	var meta accountDoc
	if err := snap.DataTo(&meta); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to decode account", err)
	}
	if l.Meta.HighestBalance, err = decimal.NewFromString(meta.HighestBalance); err != nil {
		return nil, errs.NewDatabaseError("read", "corrupt highest balance", err)
	}
	l.Meta.Sequences = meta.Sequences

	if l.Transactions, err = loadCollection(ctx, s.collection(account, transactionsCollection), decodeTransaction); err != nil {
		return nil, err
	}
	if l.Rules, err = loadCollection(ctx, s.collection(account, rulesCollection), decodeRule); err != nil {
		return nil, err
	}
	if l.Goals, err = loadCollection(ctx, s.collection(account, goalsCollection), decodeGoal); err != nil {
		return nil, err
	}
	if l.Requests, err = loadCollection(ctx, s.collection(account, requestsCollection), decodeRequest); err != nil {
		return nil, err
	}
	if l.Messages, err = loadCollection(ctx, s.collection(account, messagesCollection), decodeMessage); err != nil {
		return nil, err
	}
	return l, nil
}

// loadCollection reads every document of col and returns them ordered by id.
func loadCollection[D any, T any](ctx context.Context, col *firestore.CollectionRef, decode func(D) (T, int64, error)) ([]T, error) {
	snaps, err := col.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list "+col.ID, err)
	}
	type item struct {
		id  int64
		val T
	}
	items := make([]item, 0, len(snaps))
	for _, snap := range snaps {
		var d D
		if err := snap.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to decode "+col.ID+"/"+snap.Ref.ID, err)
		}
		v, id, err := decode(d)
		if err != nil {
			return nil, errs.NewDatabaseError("read", "corrupt "+col.ID+"/"+snap.Ref.ID, err)
		}
		items = append(items, item{id: id, val: v})
	}
	slices.SortFunc(items, func(a, b item) int { return cmp.Compare(a.id, b.id) })

	var out []T
	for _, it := range items {
		out = append(out, it.val)
	}
	return out, nil
}

func decodeTransaction(d transactionDoc) (models.Transaction, int64, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return models.Transaction{}, 0, err
	}
	return models.Transaction{
		ID:           d.ID,
		Date:         d.Date.UTC(),
		Amount:       amount,
		Type:         models.TransactionType(d.Type),
		ExternalIBAN: d.ExternalIBAN,
		Description:  d.Description,
		Category:     d.Category,
		SavingGoalID: d.SavingGoalID,
	}, d.ID, nil
}

func decodeRule(d ruleDoc) (models.CategoryRule, int64, error) {
	return models.CategoryRule{
		ID:             d.ID,
		Description:    d.Description,
		IBAN:           d.IBAN,
		Type:           models.TransactionType(d.Type),
		Category:       d.Category,
		ApplyOnHistory: d.ApplyOnHistory,
	}, d.ID, nil
}

func decodeGoal(d goalDoc) (models.SavingGoal, int64, error) {
	amounts, err := parseDecimals(d.Goal, d.SavePerMonth, d.MinBalanceRequired, d.Balance)
	if err != nil {
		return models.SavingGoal{}, 0, err
	}
	return models.SavingGoal{
		ID:                 d.ID,
		Name:               d.Name,
		Goal:               amounts[0],
		SavePerMonth:       amounts[1],
		MinBalanceRequired: amounts[2],
		Balance:            amounts[3],
		Completed:          d.Completed,
		CreatedAt:          d.CreatedAt.UTC(),
	}, d.ID, nil
}

func decodeRequest(d requestDoc) (models.PaymentRequest, int64, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return models.PaymentRequest{}, 0, err
	}
	return models.PaymentRequest{
		ID:               d.ID,
		Description:      d.Description,
		DueDate:          d.DueDate.UTC(),
		Amount:           amount,
		NumberOfRequests: d.NumberOfRequests,
		Filled:           d.Filled,
		Expired:          d.Expired,
		Transactions:     nonNil(d.Transactions),
		CreatedAt:        d.CreatedAt.UTC(),
	}, d.ID, nil
}

func decodeMessage(d messageDoc) (models.UserMessage, int64, error) {
	return models.UserMessage{
		ID:      d.ID,
		Message: d.Message,
		Date:    d.Date.UTC(),
		Read:    d.Read,
		Type:    models.MessageType(d.Type),
	}, d.ID, nil
}

// Commit writes the changeset in a single Firestore transaction, so a
// changeset is bounded by the per-transaction write limit.
func (s *firestoreStore) Commit(ctx context.Context, account string, cs *models.Changeset) error {
	if cs == nil || cs.Empty() {
		return nil
	}
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		meta := accountDoc{HighestBalance: cs.Meta.HighestBalance.String(), Sequences: cs.Meta.Sequences}
		if err := tx.Set(s.accountDoc(account), meta); err != nil {
			return err
		}

		set := func(name string, id int64, data any) error {
			return tx.Set(s.collection(account, name).Doc(docID(id)), data)
		}
		for _, t := range cs.Transactions.Upserted {
			if err := set(transactionsCollection, t.ID, transactionDoc{
				ID:           t.ID,
				Date:         t.Date,
				Amount:       t.Amount.String(),
				Type:         string(t.Type),
				ExternalIBAN: t.ExternalIBAN,
				Description:  t.Description,
				Category:     t.Category,
				SavingGoalID: t.SavingGoalID,
			}); err != nil {
				return err
			}
		}
		for _, r := range cs.Rules.Upserted {
			if err := set(rulesCollection, r.ID, ruleDoc{
				ID:             r.ID,
				Description:    r.Description,
				IBAN:           r.IBAN,
				Type:           string(r.Type),
				Category:       r.Category,
				ApplyOnHistory: r.ApplyOnHistory,
			}); err != nil {
				return err
			}
		}
		for _, g := range cs.Goals.Upserted {
			if err := set(goalsCollection, g.ID, goalDoc{
				ID:                 g.ID,
				Name:               g.Name,
				Goal:               g.Goal.String(),
				SavePerMonth:       g.SavePerMonth.String(),
				MinBalanceRequired: g.MinBalanceRequired.String(),
				Balance:            g.Balance.String(),
				Completed:          g.Completed,
				CreatedAt:          g.CreatedAt,
			}); err != nil {
				return err
			}
		}
		for _, p := range cs.Requests.Upserted {
			if err := set(requestsCollection, p.ID, requestDoc{
				ID:               p.ID,
				Description:      p.Description,
				DueDate:          p.DueDate,
				Amount:           p.Amount.String(),
				NumberOfRequests: p.NumberOfRequests,
				Filled:           p.Filled,
				Expired:          p.Expired,
				Transactions:     nonNil(p.Transactions),
				CreatedAt:        p.CreatedAt,
			}); err != nil {
				return err
			}
		}
		for _, m := range cs.Messages.Upserted {
			if err := set(messagesCollection, m.ID, messageDoc{
				ID:      m.ID,
				Message: m.Message,
				Date:    m.Date,
				Read:    m.Read,
				Type:    string(m.Type),
			}); err != nil {
				return err
			}
		}

		deletes := map[string][]int64{
			transactionsCollection: cs.Transactions.Deleted,
			rulesCollection:        cs.Rules.Deleted,
			goalsCollection:        cs.Goals.Deleted,
			requestsCollection:     cs.Requests.Deleted,
			messagesCollection:     cs.Messages.Deleted,
		}
		for name, ids := range deletes {
			for _, id := range ids {
				if err := tx.Delete(s.collection(account, name).Doc(docID(id))); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("write", "failed to commit ledger changes", err)
	}
	return nil
}

func (s *firestoreStore) Close() error {
	return s.client.Close()
}
