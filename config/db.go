package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/whalechillz/go-singsing-sub006/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultAdminUsername = "admin@singsing.local"

// AllModels lists every table in parent->child order for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&models.Admin{},
		&models.Role{},
		&models.RolePermission{},
		&models.RoleMember{},
		&models.CompanySetting{},
		&models.TourProduct{},
		&models.Tour{},
		&models.Schedule{},
		&models.BoardingPlace{},
		&models.TourBoardingTime{},
		&models.RoomType{},
		&models.Room{},
		&models.Participant{},
		&models.TeeTime{},
		&models.ParticipantTeeTime{},
		&models.MessageTemplate{},
		&models.MessageLog{},
		&models.Customer{},
		&models.CustomerTourHistory{},
		&models.Memo{},
		&models.Payment{},
		&models.TourExpense{},
		&models.TourSettlement{},
		&models.Quote{},
		&models.PublicLink{},
		&models.Letter{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := dropDuplicateTeeAssignments(db); err != nil {
		return fmt.Errorf("tee time cleanup: %w", err)
	}
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	// superseded by the unique idx_ptt_participant_day
	if db.Migrator().HasIndex(&models.ParticipantTeeTime{}, "idx_ptt_day") {
		return db.Migrator().DropIndex(&models.ParticipantTeeTime{}, "idx_ptt_day")
	}
	return nil
}

// dropDuplicateTeeAssignments keeps the earliest tee time per participant and day,
// so older databases can take the unique index.
func dropDuplicateTeeAssignments(db *gorm.DB) error {
	m := db.Migrator()
	if !m.HasTable(&models.ParticipantTeeTime{}) || !m.HasColumn(&models.ParticipantTeeTime{}, "PlayDate") {
		return nil
	}
	var rows []struct {
		ID            uint
		ParticipantID uint
		PlayDate      string
	}
	if err := db.Model(&models.ParticipantTeeTime{}).
		Select("id, participant_id, play_date").
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return err
	}

	seen := map[string]bool{}
	var dupIDs []uint
	for _, r := range rows {
		key := fmt.Sprintf("%d|%s", r.ParticipantID, r.PlayDate)
		if seen[key] {
			dupIDs = append(dupIDs, r.ID)
			continue
		}
		seen[key] = true
	}
	if len(dupIDs) == 0 {
		return nil
	}
	if err := db.Where("id IN ?", dupIDs).Delete(&models.ParticipantTeeTime{}).Error; err != nil {
		return err
	}
	log.Printf("⚠️  Removed %d duplicate tee time assignments", len(dupIDs))
	return nil
}

func SeedDatabase(db *gorm.DB) {
	// ---------------- Admin ----------------
	var adminCount int64
	db.Model(&models.Admin{}).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Admin{
				FullName: "Admin User",
				Username: defaultAdminUsername,
				Password: string(hash),
				Role:     "owner",
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	// ---------------- Company ----------------
	var companyCount int64
	db.Model(&models.CompanySetting{}).Count(&companyCount)
	if companyCount == 0 {
		db.Create(&models.CompanySetting{Name: "싱싱골프투어"})
	}

	// ---------------- Room types ----------------
	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{TypeName: "2인실", Description: "Twin", MaxGuests: 2},
			{TypeName: "3인실", Description: "Triple", MaxGuests: 3},
			{TypeName: "4인실", Description: "Quad", MaxGuests: 4},
		}
		db.Create(&roomTypes)
		log.Println("RoomTypes seeded")
	}

	// ---------------- Message templates ----------------
	var tplCount int64
	db.Model(&models.MessageTemplate{}).Count(&tplCount)
	if tplCount == 0 {
		templates := []models.MessageTemplate{
			{
				Name:        "투어 확정 안내",
				MessageType: models.MessageTypeLMS,
				Title:       "[싱싱골프] 투어 확정 안내",
				Content:     "#{이름}님, #{투어명} 투어가 확정되었습니다.\n일정: #{출발일} ~ #{종료일}\n골프장: #{골프장}\n숙소: #{숙소}",
				IsActive:    true,
			},
			{
				Name:        "탑승 안내",
				MessageType: models.MessageTypeSMS,
				Content:     "#{이름}님 #{출발일} #{탑승시간} #{탑승지} 탑승입니다.",
				IsActive:    true,
			},
			{
				Name:        "문서 링크 안내",
				MessageType: models.MessageTypeLMS,
				Title:       "[싱싱골프] 투어 안내문",
				Content:     "#{이름}님, #{투어명} 안내문을 확인해 주세요.\n#{링크}",
				IsActive:    true,
			},
		}
		if err := db.Create(&templates).Error; err != nil {
			log.Printf("warning: failed to seed message templates: %v", err)
		}
	}

	// ---------------- Roles ----------------
	desiredRoles := []models.Role{
		{Name: "owner", Description: "System owner with full access"},
		{Name: "manager", Description: "Tour operations manager"},
		{Name: "staff", Description: "Office staff"},
	}

	// owner gets everything; manager and staff never see account admin, staff is read-only
	grants := map[string][]string{}
	for module, actions := range models.PermissionModules {
		accounts := module == "admins" || module == "roles"
		for _, action := range actions {
			perm := module + "." + action
			grants["owner"] = append(grants["owner"], perm)
			if accounts {
				continue
			}
			grants["manager"] = append(grants["manager"], perm)
			if action == "view" {
				grants["staff"] = append(grants["staff"], perm)
			}
		}
	}

	rolesByKey := map[string]models.Role{}
	for i := range desiredRoles {
		role := desiredRoles[i]
		key := strings.ToLower(role.Name)

		var existing models.Role
		if err := db.Where("LOWER(name) = ?", key).First(&existing).Error; err == nil && existing.ID != 0 {
			rolesByKey[key] = existing
			continue
		}
		if err := db.Create(&role).Error; err != nil {
			log.Printf("warning: failed to create role %s: %v", role.Name, err)
			continue
		}
		rolesByKey[key] = role
	}

	for key, role := range rolesByKey {
		if role.ID == 0 {
			continue
		}
		var permCount int64
		db.Model(&models.RolePermission{}).Where("role_id = ?", role.ID).Count(&permCount)
		if permCount == 0 && len(grants[key]) > 0 {
			perms := make([]models.RolePermission, 0, len(grants[key]))
			for _, p := range grants[key] {
				perms = append(perms, models.RolePermission{RoleID: role.ID, Permission: p})
			}
			if err := db.Create(&perms).Error; err != nil {
				log.Printf("warning: failed to create %s permissions: %v", key, err)
			}
		}

		var memberCount int64
		db.Model(&models.RoleMember{}).Where("role_id = ?", role.ID).Count(&memberCount)
		if memberCount == 0 {
			var admins []models.Admin
			db.Where("LOWER(role) = ?", key).Find(&admins)
			members := make([]models.RoleMember, 0, len(admins))
			for _, admin := range admins {
				members = append(members, models.RoleMember{RoleID: role.ID, AdminID: admin.ID})
			}
			if len(members) > 0 {
				if err := db.Create(&members).Error; err != nil {
					log.Printf("warning: failed to assign admins to %s role: %v", key, err)
				}
			}
		}
	}

	log.Println("Roles ensured")
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// openDialector picks the gorm driver from DATABASE_URL (Supabase hands out postgres:// URLs).
func openDialector(s Settings) (gorm.Dialector, string, error) {
	raw := strings.TrimSpace(s.DatabaseURL)
	driver := strings.ToLower(strings.TrimSpace(s.DBDriver))

	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"), driver == "postgres" && raw != "":
		return postgres.Open(raw), "postgres", nil
	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := mysqlDSNFromURL(raw)
		if err != nil {
			return nil, "", err
		}
		return mysql.Open(dsn), "mysql", nil
	case strings.HasPrefix(raw, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(raw, "sqlite://")), "sqlite", nil
	case strings.HasPrefix(raw, "file:"), driver == "sqlite" && raw != "":
		return sqlite.Open(raw), "sqlite", nil
	case raw != "":
		return mysql.Open(raw), "mysql", nil
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		s.DBUser, s.DBPass, s.DBHost, s.DBPort, s.DBName,
	)
	return mysql.Open(dsn), "mysql", nil
}

func ConnectDatabase(s Settings) (*gorm.DB, error) {
	dialector, driver, err := openDialector(s)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if s.IsDev() {
		level = logger.Info
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      level,
			Colorful:      s.IsDev(),
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Connected to %s database", driver)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	SeedDatabase(db)
	return db, nil
}
