package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/logger"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
)

const seedPassword = "Password123"

type seedSubCategory struct {
	id, name, description string
}

type seedCategory struct {
	id, name, description, icon string
	subs                        []seedSubCategory
}

// defaultCatalog базовый каталог услуг с фиксированными id.
var defaultCatalog = []seedCategory{
	{"PLUMBING_CAT_001", "Plumbing", "Water systems, pipes, fixtures installation and repair", "plumbing_icon.png", []seedSubCategory{
		{"PLUMB_SUB_001", "Pipe Installation", "Installation of water and drainage pipes"},
		{"PLUMB_SUB_002", "Tap & Faucet Repair", "Fixing and installing taps, faucets, and valves"},
		{"PLUMB_SUB_003", "Bathroom Fitting", "Complete bathroom installation and repair"},
		{"PLUMB_SUB_004", "Water Tank Installation", "Water tank setup and maintenance"},
	}},
	{"ELECTRICAL_CAT_002", "Electrical", "Wiring, installations, and electrical repairs", "electrical_icon.png", []seedSubCategory{
		{"ELEC_SUB_001", "Home Wiring", "House electrical wiring installation and repair"},
		{"ELEC_SUB_002", "Appliance Installation", "Installing fans, lights, and electrical appliances"},
		{"ELEC_SUB_003", "Switch & Socket Repair", "Fixing electrical switches and sockets"},
		{"ELEC_SUB_004", "Inverter & UPS Setup", "Backup power solutions installation"},
	}},
	{"CARPENTRY_CAT_003", "Carpentry", "Woodwork, furniture, and construction services", "carpentry_icon.png", []seedSubCategory{
		{"CARP_SUB_001", "Furniture Making", "Custom furniture design and construction"},
		{"CARP_SUB_002", "Door & Window Installation", "Installing and repairing doors and windows"},
		{"CARP_SUB_003", "Cabinet & Shelving", "Kitchen cabinets and storage solutions"},
		{"CARP_SUB_004", "Wood Flooring", "Wooden floor installation and polishing"},
	}},
	{"PAINTING_CAT_004", "Painting", "Interior, exterior, and decorative painting", "painting_icon.png", []seedSubCategory{
		{"PAINT_SUB_001", "Interior Painting", "Indoor wall and ceiling painting"},
		{"PAINT_SUB_002", "Exterior Painting", "Outdoor building painting and weather protection"},
		{"PAINT_SUB_003", "Decorative Painting", "Artistic and textured wall designs"},
		{"PAINT_SUB_004", "Furniture Painting", "Painting and finishing wooden furniture"},
	}},
	{"CLEANING_CAT_005", "Cleaning", "Housekeeping and maintenance services", "cleaning_icon.png", []seedSubCategory{
		{"CLEAN_SUB_001", "House Cleaning", "Regular household cleaning services"},
		{"CLEAN_SUB_002", "Deep Cleaning", "Comprehensive cleaning and sanitization"},
		{"CLEAN_SUB_003", "Office Cleaning", "Commercial space cleaning services"},
		{"CLEAN_SUB_004", "Post-Construction Cleaning", "Cleanup after construction or renovation"},
	}},
	{"GARDENING_CAT_006", "Gardening", "Landscaping and plant care services", "gardening_icon.png", []seedSubCategory{
		{"GARDEN_SUB_001", "Lawn Maintenance", "Grass cutting and lawn care"},
		{"GARDEN_SUB_002", "Plant Care", "Plant maintenance and disease treatment"},
		{"GARDEN_SUB_003", "Landscaping", "Garden design and landscape installation"},
		{"GARDEN_SUB_004", "Tree Trimming", "Tree cutting and pruning services"},
	}},
	{"APPLIANCE_CAT_007", "Appliance Repair", "AC, fridge, washing machine repair services", "appliance_icon.png", []seedSubCategory{
		{"APPL_SUB_001", "AC Repair", "Air conditioner installation and repair"},
		{"APPL_SUB_002", "Refrigerator Repair", "Fridge and freezer repair services"},
		{"APPL_SUB_003", "Washing Machine Repair", "Laundry appliance repair and maintenance"},
		{"APPL_SUB_004", "TV & Electronics Repair", "Television and electronic device repair"},
	}},
	{"MASONRY_CAT_008", "Masonry", "Brickwork, concrete, and tile services", "masonry_icon.png", []seedSubCategory{
		{"MASON_SUB_001", "Brickwork", "Wall construction and brick laying"},
		{"MASON_SUB_002", "Concrete Work", "Concrete mixing and foundation work"},
		{"MASON_SUB_003", "Tile Installation", "Floor and wall tile fitting"},
		{"MASON_SUB_004", "Plastering", "Wall plastering and finishing"},
	}},
	{"WELDING_CAT_009", "Welding", "Metal work and fabrication services", "welding_icon.png", []seedSubCategory{
		{"WELD_SUB_001", "Metal Fabrication", "Custom metal structure creation"},
		{"WELD_SUB_002", "Gate & Railing", "Security gates and stair railings"},
		{"WELD_SUB_003", "Repair Work", "Metal repair and maintenance"},
		{"WELD_SUB_004", "Sheet Metal Work", "Roofing and sheet metal fabrication"},
	}},
}

// CatalogSeedResult сколько записей каталога создано за прогон.
type CatalogSeedResult struct {
	CategoriesCreated    int `json:"categories_created"`
	SubCategoriesCreated int `json:"sub_categories_created"`
}

// SeedAccountInfo учётные данные созданного демо-аккаунта.
type SeedAccountInfo struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Skills      []string `json:"skills"`
	AccessToken string   `json:"access_token,omitempty"`
}

// SeedResult итог генерации демо-данных.
type SeedResult struct {
	Catalog  CatalogSeedResult `json:"catalog"`
	Accounts []SeedAccountInfo `json:"accounts"`
}

// SeedService наполняет базу каталогом услуг и демо-исполнителями.
type SeedService struct {
	taxonomy *TaxonomyService
	skills   *SkillService
	users    domain.UserRepository
	tokens   *TokenManager
	ids      IDGenerator
	clock    Clock
	log      *logrus.Entry
}

func NewSeedService(taxonomy *TaxonomyService, skills *SkillService, users domain.UserRepository, tokens *TokenManager, ids IDGenerator, clock Clock) *SeedService {
	return &SeedService{
		taxonomy: taxonomy,
		skills:   skills,
		users:    users,
		tokens:   tokens,
		ids:      ids,
		clock:    clock,
		log:      logger.For("seed"),
	}
}

// SeedCatalog создаёт недостающие категории и подкатегории базового каталога.
// Уже существующие id пропускаются, поэтому повторный запуск ничего не меняет.
func (s *SeedService) SeedCatalog(ctx context.Context) (CatalogSeedResult, error) {
	var res CatalogSeedResult
	for _, sc := range defaultCatalog {
		created, err := s.seedCategory(ctx, sc)
		if err != nil {
			if apperror.IsDuplicateName(err) {
				s.log.WithField("name", sc.name).Warn("категория с таким именем уже есть под другим id, пропускаем")
				continue
			}
			return res, fmt.Errorf("seed service: category %s: %w", sc.id, err)
		}
		if created {
			res.CategoriesCreated++
		}

		for _, ss := range sc.subs {
			created, err := s.seedSubCategory(ctx, sc.id, ss)
			if err != nil {
				if apperror.IsDuplicateName(err) || apperror.IsConflict(err) {
					s.log.WithError(err).WithField("sub_category_id", ss.id).Warn("подкатегория пропущена")
					continue
				}
				return res, fmt.Errorf("seed service: sub category %s: %w", ss.id, err)
			}
			if created {
				res.SubCategoriesCreated++
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"categories":     res.CategoriesCreated,
		"sub_categories": res.SubCategoriesCreated,
	}).Info("каталог загружен")
	return res, nil
}

func (s *SeedService) seedCategory(ctx context.Context, sc seedCategory) (bool, error) {
	_, err := s.taxonomy.repo.GetCategoryByID(ctx, sc.id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return false, err
	}
	_, err = s.taxonomy.createCategory(ctx, sc.id, CategoryInput{
		Name:        sc.name,
		Description: strPtr(sc.description),
		Icon:        strPtr(sc.icon),
	})
	return err == nil, err
}

func (s *SeedService) seedSubCategory(ctx context.Context, categoryID string, ss seedSubCategory) (bool, error) {
	_, err := s.taxonomy.repo.GetSubCategoryByID(ctx, ss.id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return false, err
	}
	_, err = s.taxonomy.createSubCategory(ctx, ss.id, categoryID, SubCategoryInput{
		Name:        ss.name,
		Description: strPtr(ss.description),
	})
	return err == nil, err
}

// SeedDemoData загружает каталог и создаёт numWorkers исполнителей со случайными навыками.
func (s *SeedService) SeedDemoData(ctx context.Context, numWorkers int) (*SeedResult, error) {
	catalog, err := s.SeedCatalog(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.SeedDemoWorkers(ctx, numWorkers)
	if err != nil {
		return nil, err
	}
	return &SeedResult{Catalog: catalog, Accounts: accounts}, nil
}

// SeedDemoWorkers создаёт исполнителей с 1-3 навыками из активного каталога.
func (s *SeedService) SeedDemoWorkers(ctx context.Context, count int) ([]SeedAccountInfo, error) {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	firstNames := []string{
		"Ramesh", "Suresh", "Mahesh", "Rajesh", "Amit", "Vijay", "Sanjay", "Anil",
		"Sunil", "Manoj", "Deepak", "Ravi", "Arjun", "Karan", "Imran", "Farhan",
		"Priya", "Sunita", "Anita", "Kavita", "Pooja", "Neha", "Meena", "Rekha",
	}
	lastNames := []string{
		"Kumar", "Sharma", "Verma", "Singh", "Yadav", "Gupta", "Patel", "Khan",
		"Das", "Reddy", "Nair", "Mishra", "Chauhan", "Joshi", "Mehta", "Iyer",
	}
	areas := []string{
		"Delhi", "Noida", "Gurgaon", "Mumbai", "Thane", "Pune", "Bangalore", "Hyderabad",
		"Chennai", "Kolkata", "Lucknow", "Jaipur", "Ahmedabad", "Indore", "Bhopal", "Patna",
	}
	abouts := []string{
		"Аккуратная работа, свои инструменты, гарантия на выполненные работы.",
		"Работаю по городу и пригородам, выезд в день обращения.",
		"Более десяти лет в профессии, много постоянных клиентов.",
		"Берусь за мелкий ремонт и крупные объекты, честная смета до начала работ.",
	}

	subs, err := s.taxonomy.ListActiveSubCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed service: list sub categories: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed service: hash password: %w", err)
	}

	accounts := make([]SeedAccountInfo, 0, count)
	for i := 0; i < count; i++ {
		first := firstNames[rnd.Intn(len(firstNames))]
		last := lastNames[rnd.Intn(len(lastNames))]
		email := fmt.Sprintf("%s.%s.%d@kaamwala.test", strings.ToLower(first), strings.ToLower(last), rnd.Intn(100000))

		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return accounts, fmt.Errorf("seed service: check email: %w", err)
		}
		if exists {
			continue
		}

		experience := rnd.Intn(21)
		rate := float64(50 + rnd.Intn(96)*50)
		serviceAreas := pickDistinct(rnd, areas, 1+rnd.Intn(3))
		about := abouts[rnd.Intn(len(abouts))]
		now := s.clock()

		user := &models.User{
			ID:              s.ids(),
			Name:            first + " " + last,
			Email:           email,
			PasswordHash:    string(passwordHash),
			Role:            models.RoleWorker,
			About:           &about,
			ExperienceYears: &experience,
			HourlyRate:      &rate,
			ServiceAreas:    strPtr(strings.Join(serviceAreas, ", ")),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				continue
			}
			return accounts, fmt.Errorf("seed service: create user: %w", err)
		}

		acc := SeedAccountInfo{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Password: seedPassword,
			Role:     user.Role,
			Skills:   []string{},
		}
		for j, idx := range rnd.Perm(len(subs))[:min(len(subs), 1+rnd.Intn(3))] {
			sub := subs[idx]
			years := rnd.Intn(experience + 1)
			skill, err := s.skills.Assign(ctx, AssignInput{
				UserID:           user.ID,
				SubCategoryID:    sub.ID,
				ProficiencyLevel: models.SuggestedProficiency(years),
				ExperienceYears:  years,
				HourlyRate:       &rate,
				IsPrimary:        j == 0,
			})
			if err != nil {
				return accounts, fmt.Errorf("seed service: assign skill: %w", err)
			}
			acc.Skills = append(acc.Skills, skill.SubCategoryName)
		}

		if s.tokens != nil {
			token, err := s.tokens.GenerateAccess(user.ID, user.Role)
			if err != nil {
				return accounts, fmt.Errorf("seed service: token: %w", err)
			}
			acc.AccessToken = token
		}
		accounts = append(accounts, acc)
	}

	s.log.WithField("workers", len(accounts)).Info("демо-исполнители созданы")
	return accounts, nil
}

func pickDistinct(rnd *rand.Rand, from []string, n int) []string {
	out := make([]string, 0, n)
	for _, idx := range rnd.Perm(len(from))[:min(n, len(from))] {
		out = append(out, from[idx])
	}
	return out
}

func strPtr(s string) *string {
	return &s
}
