package testkit

import (
	"math"
	"math/rand"
	"time"

	"goeda/domain/dataset"
)

// ShoppingGeneratorConfig configures the synthetic orders table
type ShoppingGeneratorConfig struct {
	Rows          int       `json:"rows"`
	MissingRate   float64   `json:"missing_rate"`   // share of blanked cells in the nullable columns
	OutlierRate   float64   `json:"outlier_rate"`   // share of order values inflated tenfold
	DuplicateRows int       `json:"duplicate_rows"` // rows copied verbatim from earlier rows
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Seed          int64     `json:"seed"`
}

// DefaultShoppingConfig returns a small table with every kind of finding
func DefaultShoppingConfig() ShoppingGeneratorConfig {
	return ShoppingGeneratorConfig{
		Rows:          500,
		MissingRate:   0.05,
		OutlierRate:   0.02,
		DuplicateRows: 3,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		Seed:          42,
	}
}

var (
	categories = []string{"eletrônicos", "moda", "casa", "livros", "esporte", "beleza"}
	categoryW  = []float64{0.25, 0.25, 0.2, 0.12, 0.1, 0.08}
	channels   = []string{"site", "app", "loja"}
	channelW   = []float64{0.5, 0.35, 0.15}
)

// ShoppingDataGenerator builds a reproducible e-commerce orders table
type ShoppingDataGenerator struct {
	config ShoppingGeneratorConfig
	rng    *rand.Rand
}

// NewShoppingDataGenerator creates a generator; equal configs give equal tables
func NewShoppingDataGenerator(config ShoppingGeneratorConfig) *ShoppingDataGenerator {
	return &ShoppingDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

type order struct {
	value    float64
	items    float64
	age      float64
	discount float64
	category string
	channel  string
	returned bool
	placedAt time.Time
}

// GenerateTable returns the orders with columns valor_pedido (log-normal),
// itens, idade_cliente (normal), desconto_pct, categoria, canal, devolvido and
// data_pedido
func (g *ShoppingDataGenerator) GenerateTable() *dataset.Table {
	n := g.config.Rows
	orders := make([]order, 0, n+g.config.DuplicateRows)
	for i := 0; i < n; i++ {
		orders = append(orders, g.generateOrder())
	}
	for i := 0; i < g.config.DuplicateRows && n > 0; i++ {
		orders = append(orders, orders[g.rng.Intn(n)])
	}

	total := len(orders)
	values := make([]float64, total)
	items := make([]float64, total)
	ages := make([]float64, total)
	discounts := make([]float64, total)
	cats := make([]string, total)
	chans := make([]string, total)
	returned := make([]bool, total)
	placed := make([]time.Time, total)
	for i, o := range orders {
		values[i], items[i], ages[i], discounts[i] = o.value, o.items, o.age, o.discount
		cats[i], chans[i], returned[i], placed[i] = o.category, o.channel, o.returned, o.placedAt
	}

	return dataset.MustTable(
		dataset.NewNumericColumn("valor_pedido", values),
		dataset.NewNumericColumn("itens", items),
		dataset.NewNumericColumn("idade_cliente", ages),
		dataset.NewNumericColumn("desconto_pct", discounts),
		dataset.NewStringColumn("categoria", cats),
		dataset.NewStringColumn("canal", chans),
		dataset.NewBooleanColumn("devolvido", returned),
		dataset.NewTimestampColumn("data_pedido", placed),
	)
}

func (g *ShoppingDataGenerator) generateOrder() order {
	o := order{
		items:    float64(1 + g.poisson(1.8)),
		age:      math.Round(38 + 11*g.rng.NormFloat64()),
		category: g.weighted(categories, categoryW),
		channel:  g.weighted(channels, channelW),
		placedAt: g.randomTimeInRange(g.config.StartDate, g.config.EndDate),
	}
	o.value = math.Round(math.Exp(4+0.6*g.rng.NormFloat64())*o.items*100) / 100
	if g.rng.Float64() < g.config.OutlierRate {
		o.value *= 10
	}
	o.discount = math.Round(g.rng.Float64()*30*100) / 100
	o.returned = g.rng.Float64() < 0.05+0.02*float64(o.items)

	if g.rng.Float64() < g.config.MissingRate {
		o.discount = math.NaN()
	}
	if g.rng.Float64() < g.config.MissingRate {
		o.channel = ""
	}
	if g.rng.Float64() < g.config.MissingRate/2 {
		o.age = math.NaN()
	}
	return o
}

// poisson draws with Knuth's multiplication method
func (g *ShoppingDataGenerator) poisson(lambda float64) int {
	limit := math.Exp(-lambda)
	k, p := 0, g.rng.Float64()
	for p > limit {
		k++
		p *= g.rng.Float64()
	}
	return k
}

func (g *ShoppingDataGenerator) weighted(values []string, weights []float64) string {
	r := g.rng.Float64()
	for i, w := range weights {
		if r < w {
			return values[i]
		}
		r -= w
	}
	return values[len(values)-1]
}

func (g *ShoppingDataGenerator) randomTimeInRange(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	span := end.Sub(start)
	return start.Add(time.Duration(g.rng.Int63n(int64(span)))).Truncate(time.Second)
}
