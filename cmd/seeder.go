package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	accessDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/access"
	campaignDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/campaign"
	companyDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/company"
	privacyDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/privacy"
	userDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			tables := []string{
				"campaigns", "company_user_group_grants", "user_group_memberships",
				"company_group_grants", "user_group_grants", "group_tags",
				"company_user_groups", "access_control_groups", "product_category_tags",
				"privacy_rules", "api_keys", "users", "companies",
			}
			for _, t := range tables {
				if err := db.Exec("DELETE FROM " + t).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", t, err)
				}
			}
			fmt.Println("cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		seedCompany := func(name string, ownerID int64) int64 {
			var rec companyDatamodel.Company
			err := db.Where("name = ?", name).First(&rec).Error
			if err == gorm.ErrRecordNotFound {
				rec = companyDatamodel.Company{Name: name, OwnerUserID: ownerID}
				if err := db.Create(&rec).Error; err != nil {
					log.Fatalf("failed to insert company %s: %v", name, err)
				}
				fmt.Println("seeded company:", name)
			} else if err != nil {
				log.Fatalf("failed to look up company %s: %v", name, err)
			}
			return rec.ID
		}

		seedUser := func(email, first, last, role string, companyID *int64, verified bool) int64 {
			var rec userDatamodel.User
			err := db.Where("email = ?", email).First(&rec).Error
			if err == gorm.ErrRecordNotFound {
				rec = userDatamodel.User{
					Email:        email,
					FirstName:    first,
					LastName:     last,
					PasswordHash: string(hash),
					Role:         role,
					CompanyID:    companyID,
					IsVerified:   verified,
				}
				if err := db.Create(&rec).Error; err != nil {
					log.Fatalf("failed to insert user %s: %v", email, err)
				}
				fmt.Println("seeded user:", email)
			} else if err != nil {
				log.Fatalf("failed to look up user %s: %v", email, err)
			}
			return rec.ID
		}

		// platform admin and a demo company
		adminID := seedUser("admin@mail.com", "Padil", "Admin", "admin", nil, true)
		ownerID := seedUser("owner@mail.com", "Fadhil", "Owner", "companyAdministrator", nil, true)
		companyID := seedCompany("Acme Retail", ownerID)
		db.Exec("UPDATE users SET company_id = ? WHERE id IN (?, ?)", companyID, ownerID, adminID)
		employeeID := seedUser("employee@mail.com", "Rizky", "Pratama", "employee", &companyID, true)
		seedUser("unverified@mail.com", "Sari", "Baru", "user", &companyID, false)

		// category tags and an access group granting them
		tags := []string{"electronics", "apparel", "groceries"}
		tagIDs := make([]int64, 0, len(tags))
		for _, name := range tags {
			var tag accessDatamodel.ProductCategoryTag
			err := db.Where("name = ?", name).First(&tag).Error
			if err == gorm.ErrRecordNotFound {
				tag = accessDatamodel.ProductCategoryTag{Name: name}
				if err := db.Create(&tag).Error; err != nil {
					log.Fatalf("failed to insert tag %s: %v", name, err)
				}
				fmt.Println("seeded tag:", name)
			} else if err != nil {
				log.Fatalf("failed to look up tag %s: %v", name, err)
			}
			tagIDs = append(tagIDs, tag.ID)
		}

		var group accessDatamodel.AccessControlGroup
		err = db.Where("name = ?", "retail-catalogue").First(&group).Error
		if err == gorm.ErrRecordNotFound {
			group = accessDatamodel.AccessControlGroup{Name: "retail-catalogue"}
			if err := db.Create(&group).Error; err != nil {
				log.Fatalf("failed to insert access group: %v", err)
			}
			for _, tagID := range tagIDs[:2] {
				db.Create(&accessDatamodel.GroupTag{GroupID: group.ID, TagID: tagID})
			}
			db.Create(&accessDatamodel.CompanyGroupGrant{CompanyID: companyID, GroupID: group.ID})
			fmt.Println("seeded access group: retail-catalogue")
		} else if err != nil {
			log.Fatalf("failed to look up access group: %v", err)
		}

		// company user group with the employee as member, granted the same
		// catalogue so the membership path is exercised
		var userGroup accessDatamodel.CompanyUserGroup
		err = db.Where("name = ? AND company_id = ?", "store-managers", companyID).First(&userGroup).Error
		if err == gorm.ErrRecordNotFound {
			userGroup = accessDatamodel.CompanyUserGroup{Name: "store-managers", CompanyID: companyID}
			if err := db.Create(&userGroup).Error; err != nil {
				log.Fatalf("failed to insert company user group: %v", err)
			}
			db.Create(&accessDatamodel.UserGroupMembership{UserID: employeeID, CompanyUserGroupID: userGroup.ID})
			db.Create(&accessDatamodel.CompanyUserGroupGrant{CompanyUserGroupID: userGroup.ID, GroupID: group.ID})
			fmt.Println("seeded company user group: store-managers")
		} else if err != nil {
			log.Fatalf("failed to look up company user group: %v", err)
		}

		// privacy rule hiding campaign contacts from employees
		var rule privacyDatamodel.Rule
		err = db.Where("company_id = ? AND role = ? AND module = ?", companyID, "employee", "campaign").
			First(&rule).Error
		if err == gorm.ErrRecordNotFound {
			rule = privacyDatamodel.Rule{CompanyID: companyID, Role: "employee", Module: "campaign", IsEnabled: true}
			if err := db.Create(&rule).Error; err != nil {
				log.Fatalf("failed to insert privacy rule: %v", err)
			}
			fmt.Println("seeded privacy rule: employee/campaign")
		} else if err != nil {
			log.Fatalf("failed to look up privacy rule: %v", err)
		}

		// demo campaign under the first tag
		var demo campaignDatamodel.Campaign
		err = db.Where("name = ?", "Summer Electronics Sale").First(&demo).Error
		if err == gorm.ErrRecordNotFound {
			demo = campaignDatamodel.Campaign{
				Name:          "Summer Electronics Sale",
				CompanyID:     companyID,
				CategoryTagID: tagIDs[0],
				ContactEmail:  "contact@acme.example",
				ContactFirst:  "Dewi",
				ContactLast:   "Lestari",
				City:          "Jakarta",
				Street:        "Jl. Sudirman 12",
				Zip:           "10220",
				Country:       "ID",
				IsActive:      true,
			}
			if err := db.Create(&demo).Error; err != nil {
				log.Fatalf("failed to insert campaign: %v", err)
			}
			fmt.Println("seeded campaign: Summer Electronics Sale")
		} else if err != nil {
			log.Fatalf("failed to look up campaign: %v", err)
		}

		fmt.Println("seeding complete")
	},
}
