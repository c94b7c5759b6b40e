package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"sort"
	"sync/atomic"
	"time"

	"reiatsu/models"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// Economy holds the tunable numbers of the Reiatsu economy
type Economy struct {
	SuperSpawnChance       float64 `yaml:"super_spawn_chance"`
	NormalGain             int64   `yaml:"normal_gain"`
	SuperGain              int64   `yaml:"super_gain"`
	AbsorberGain           int64   `yaml:"absorber_gain"`
	GamblerMaxGain         int64   `yaml:"gambler_max_gain"`
	BaseStealChance        float64 `yaml:"base_steal_chance"`
	StealFraction          float64 `yaml:"steal_fraction"`
	ThiefDoubleChance      float64 `yaml:"thief_double_chance"`
	IllusionistDodgeChance float64 `yaml:"illusionist_dodge_chance"`
	FakeSpawnPenalty       int64   `yaml:"fake_spawn_penalty"`
	GambleCost             int64   `yaml:"gamble_cost"`
	CarDrawCost            int64   `yaml:"car_draw_cost"`
	GardenStartMoney       int64   `yaml:"garden_start_money"`
	GardenExchangeRate     int64   `yaml:"garden_exchange_rate"`
	AnagramReward          int64   `yaml:"anagram_reward"`
	MemoryBaseReward       int64   `yaml:"memory_base_reward"`
}

// ClassDef describes a Reiatsu class and its skill
type ClassDef struct {
	ID               models.PlayerClass `yaml:"id"`
	Name             string             `yaml:"name"`
	Emoji            string             `yaml:"emoji"`
	Description      string             `yaml:"description"`
	SkillName        string             `yaml:"skill_name"`
	SkillDescription string             `yaml:"skill_description"`
	SkillCooldown    time.Duration      `yaml:"skill_cooldown"`
	StealChance      float64            `yaml:"steal_chance"`
	StealCooldown    time.Duration      `yaml:"steal_cooldown"`
}

// RPGClassDef describes a combat class and its multipliers
type RPGClassDef struct {
	ID          models.RPGClass `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	AttackMult  float64         `yaml:"attack_mult"`
	DefenseMult float64         `yaml:"defense_mult"`
	SpeedMult   float64         `yaml:"speed_mult"`
	CritChance  float64         `yaml:"crit_chance"`
}

// Enemy is an RPG opponent
type Enemy struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	HP      int    `yaml:"hp"`
	Attack  int    `yaml:"attack"`
	Defense int    `yaml:"defense"`
	Speed   int    `yaml:"speed"`
	XP      int    `yaml:"xp"`
	Reward  int64  `yaml:"reward"`
}

// Zone is an RPG area
type Zone struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	MinLevel int     `yaml:"min_level"`
	Enemies  []Enemy `yaml:"enemies"`
}

// ItemKind selects what buying a shop item does
type ItemKind string

const (
	ItemKindRole       ItemKind = "role"
	ItemKindShield     ItemKind = "shield"
	ItemKindSteamKey   ItemKind = "steam_key"
	ItemKindTitle      ItemKind = "title"
	ItemKindClassReset ItemKind = "class_reset"
)

// ShopItem is something players can buy with Reiatsu
type ShopItem struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Kind        ItemKind      `yaml:"kind"`
	Price       int64         `yaml:"price"`
	RoleID      string        `yaml:"role_id"`
	Duration    time.Duration `yaml:"duration"`
	Title       string        `yaml:"title"`
}

// Quest is a counter objective rewarded once
type Quest struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Trigger     string `yaml:"trigger"`
	Target      int    `yaml:"target"`
	Reward      int64  `yaml:"reward"`
}

// Quest triggers
const (
	TriggerAbsorb       = "absorb"
	TriggerStealSuccess = "steal_success"
	TriggerPurchase     = "purchase"
	TriggerCombatWin    = "combat_win"
	TriggerWordFound    = "word_found"
)

// QuizQuestion is a multiple choice question
type QuizQuestion struct {
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Wrong    []string `yaml:"wrong"`
	Points   int64    `yaml:"points"`
}

// Crop is a garden plant
type Crop struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Emoji     string        `yaml:"emoji"`
	SeedPrice int64         `yaml:"seed_price"`
	SellPrice int64         `yaml:"sell_price"`
	GrowTime  time.Duration `yaml:"grow_time"`
}

// Car is a collectible drawn from the garage
type Car struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Rarity string `yaml:"rarity"`
	Weight int    `yaml:"weight"`
}

// Catalog is the full set of static game data
type Catalog struct {
	Economy     Economy        `yaml:"economy"`
	Classes     []ClassDef     `yaml:"classes"`
	RPGClasses  []RPGClassDef  `yaml:"rpg_classes"`
	Zones       []Zone         `yaml:"zones"`
	Shop        []ShopItem     `yaml:"shop"`
	Quests      []Quest        `yaml:"quests"`
	Quiz        []QuizQuestion `yaml:"quiz"`
	Words       []string       `yaml:"words"`
	MemoryCards []string       `yaml:"memory_cards"`
	Crops       []Crop         `yaml:"crops"`
	Cars        []Car          `yaml:"cars"`
}

// Load reads every *.yaml file of fsys in name order into one catalog.
// Later files override the top-level keys they define.
func Load(fsys fs.FS, dir string) (*Catalog, error) {
	cat := &Catalog{}
	if err := overlay(cat, fsys, dir); err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Load(embedded, "data")
}

// LoadWithOverrides loads the embedded catalog and applies the YAML files of
// dir on top. An empty dir yields the embedded catalog.
func LoadWithOverrides(dir string) (*Catalog, error) {
	cat := &Catalog{}
	if err := overlay(cat, embedded, "data"); err != nil {
		return nil, err
	}
	if dir != "" {
		if err := overlay(cat, os.DirFS(dir), "."); err != nil {
			return nil, fmt.Errorf("failed to load overrides from %s: %w", dir, err)
		}
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func overlay(cat *Catalog, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read catalog directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, cat); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks references and numeric ranges
func (c *Catalog) Validate() error {
	for _, class := range c.Classes {
		if !class.ID.IsValid() {
			return fmt.Errorf("unknown class id %q", class.ID)
		}
	}
	if len(c.Zones) == 0 {
		return fmt.Errorf("catalog has no zones")
	}
	for _, zone := range c.Zones {
		if len(zone.Enemies) == 0 {
			return fmt.Errorf("zone %s has no enemies", zone.ID)
		}
	}
	seen := make(map[string]bool)
	for _, item := range c.Shop {
		if seen[item.ID] {
			return fmt.Errorf("duplicate shop item %q", item.ID)
		}
		seen[item.ID] = true
		if item.Price <= 0 {
			return fmt.Errorf("shop item %s must have a positive price", item.ID)
		}
	}
	for _, q := range c.Quiz {
		if len(q.Wrong) != 3 {
			return fmt.Errorf("quiz question %q needs exactly 3 wrong answers", q.Question)
		}
	}
	if len(c.MemoryCards) < 8 {
		return fmt.Errorf("memory game needs at least 8 card faces")
	}
	for _, car := range c.Cars {
		if car.Weight <= 0 {
			return fmt.Errorf("car %s must have a positive weight", car.ID)
		}
	}
	if c.Economy.GardenExchangeRate <= 0 {
		return fmt.Errorf("garden exchange rate must be positive")
	}
	return nil
}

// Class returns the class definition for id
func (c *Catalog) Class(id models.PlayerClass) (*ClassDef, bool) {
	for i := range c.Classes {
		if c.Classes[i].ID == id {
			return &c.Classes[i], true
		}
	}
	return nil, false
}

// RPGClass returns the combat class definition for id
func (c *Catalog) RPGClass(id models.RPGClass) (*RPGClassDef, bool) {
	for i := range c.RPGClasses {
		if c.RPGClasses[i].ID == id {
			return &c.RPGClasses[i], true
		}
	}
	return nil, false
}

// Zone returns the zone for id
func (c *Catalog) Zone(id string) (*Zone, bool) {
	for i := range c.Zones {
		if c.Zones[i].ID == id {
			return &c.Zones[i], true
		}
	}
	return nil, false
}

// StartingZone is the first zone of the catalog
func (c *Catalog) StartingZone() *Zone {
	return &c.Zones[0]
}

// ZonesUnlockedAt returns the zones whose level requirement is met at level
func (c *Catalog) ZonesUnlockedAt(level int) []string {
	var ids []string
	for _, zone := range c.Zones {
		if zone.MinLevel <= level {
			ids = append(ids, zone.ID)
		}
	}
	return ids
}

// ShopItem returns the item for id
func (c *Catalog) ShopItem(id string) (*ShopItem, bool) {
	for i := range c.Shop {
		if c.Shop[i].ID == id {
			return &c.Shop[i], true
		}
	}
	return nil, false
}

// QuestsFor returns the quests advanced by trigger
func (c *Catalog) QuestsFor(trigger string) []Quest {
	var quests []Quest
	for _, q := range c.Quests {
		if q.Trigger == trigger {
			quests = append(quests, q)
		}
	}
	return quests
}

// Crop returns the crop for id
func (c *Catalog) Crop(id string) (*Crop, bool) {
	for i := range c.Crops {
		if c.Crops[i].ID == id {
			return &c.Crops[i], true
		}
	}
	return nil, false
}

// Car returns the car for id
func (c *Catalog) Car(id string) (*Car, bool) {
	for i := range c.Cars {
		if c.Cars[i].ID == id {
			return &c.Cars[i], true
		}
	}
	return nil, false
}

// HasWord reports whether word is part of the anagram list
func (c *Catalog) HasWord(word string) bool {
	return slices.Contains(c.Words, word)
}

// Store holds the current catalog and swaps it atomically on reload
type Store struct {
	dir     string
	current atomic.Pointer[Catalog]
}

// NewStore loads the catalog with overrides from dir
func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps an already loaded catalog
func NewStaticStore(cat *Catalog) *Store {
	s := &Store{}
	s.current.Store(cat)
	return s
}

// Get returns the current catalog
func (s *Store) Get() *Catalog {
	return s.current.Load()
}

// Dir returns the override directory, empty when none is configured
func (s *Store) Dir() string {
	return s.dir
}

// Reload re-reads the catalog. A broken override keeps the previous catalog.
func (s *Store) Reload() error {
	cat, err := LoadWithOverrides(s.dir)
	if err != nil {
		return fmt.Errorf("failed to reload catalog: %w", err)
	}
	s.current.Store(cat)
	log.WithFields(log.Fields{
		"zones":  len(cat.Zones),
		"items":  len(cat.Shop),
		"quests": len(cat.Quests),
		"quiz":   len(cat.Quiz),
	}).Info("Catalog loaded")
	return nil
}
