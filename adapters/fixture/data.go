package fixture

import (
	"time"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

const day = 24 * time.Hour

func seedProjects(now time.Time) []core.Project {
	return []core.Project{
		{
			ID:          "1",
			Name:        "DeFi Türkiye",
			Description: "Türkiye'nin ilk DeFi platformu. Yerel para birimleri ile DeFi protokollerini birleştiren yenilikçi çözüm.",
			Category:    core.CategoryDeFi,
			ImageURL:    "/assets/defi-turkiye.png",
			WebsiteURL:  "https://defiturkiye.com",
			TwitterURL:  "https://twitter.com/defiturkiye",
			GitHubURL:   "https://github.com/defiturkiye",
			CreatedAt:   now.Add(-30 * day),
		},
		{
			ID:          "2",
			Name:        "Istanbul NFT",
			Description: "İstanbul'un kültürel mirasını NFT'lerde yaşatan topluluk projesi. Sanat ve teknoloji buluşması.",
			Category:    core.CategoryNFT,
			ImageURL:    "/assets/istanbul-nft.png",
			WebsiteURL:  "https://istanbulnft.art",
			TwitterURL:  "https://twitter.com/istanbulnft",
			CreatedAt:   now.Add(-15 * day),
		},
		{
			ID:          "3",
			Name:        "GRAINZ AGENCY",
			Description: "Blockchain ve web3 projelerine Türkiye marketinde destek olmak için kurulan bir oluşumdur. sosyal medya ve topluluk yonetimi ve marketing alanında destek vermektedir.",
			Category:    core.CategorySocial,
			ImageURL:    "/assets/grainzagency",
			WebsiteURL:  "http://grainz.space/",
			TwitterURL:  "https://twitter.com/grainzeth",
			CreatedAt:   now.Add(-20 * day),
		},
	}
}

func seedPeople(now time.Time) []core.Person {
	return []core.Person{
		{
			ID:            "1",
			WalletAddress: "0x742d35Cc6634C0532925a3b8D4C6A7e6e3b5a8d6",
			Name:          "Ahmet Demir",
			Bio:           "Senior Solidity Developer ve DeFi protokol uzmanı. 5+ yıl Web3 deneyimi.",
			Role:          core.PersonDeveloper,
			Location:      "Istanbul",
			AvatarURL:     "/assets/avatar-1.png",
			SocialLinks: &core.SocialLinks{
				X:        "https://x.com/ahmetdemir",
				GitHub:   "https://github.com/ahmetdemir",
				LinkedIn: "https://linkedin.com/in/ahmetdemir",
			},
			Skills:    []string{"Solidity", "React", "Web3.js", "Hardhat"},
			CreatedAt: now.Add(-10 * day),
		},
		{
			ID:            "2",
			WalletAddress: "0x9A2B3C4D5E6F7G8H9I0J1K2L3M4N5O6P7Q8R9S0T",
			Name:          "Zeynep Kartal",
			Bio:           "NFT sanatçısı ve digital asset creator. Türk kültürünü blockchain'e taşıyor.",
			Role:          core.PersonContentCreator,
			Location:      "Izmir",
			AvatarURL:     "/assets/avatar-2.png",
			SocialLinks: &core.SocialLinks{
				X:         "https://x.com/zeynepkartal",
				Instagram: "https://instagram.com/zeynepkartal",
			},
			Skills:    []string{"Digital Art", "NFT Creation", "Photoshop", "Illustrator"},
			CreatedAt: now.Add(-5 * day),
		},
		{
			ID:            "3",
			WalletAddress: "0xB1C2D3E4F5G6H7I8J9K0L1M2N3O4P5Q6R7S8T9U0",
			Name:          "Mehmet Yılmaz",
			Bio:           "Web3 startup investor ve mentor. Early stage projelere odaklanıyor.",
			Role:          core.PersonInvestor,
			Location:      "Ankara",
			AvatarURL:     "/assets/avatar-3.png",
			SocialLinks: &core.SocialLinks{
				X:        "https://x.com/mehmetyilmaz",
				LinkedIn: "https://linkedin.com/in/mehmetyilmaz",
			},
			Skills:    []string{"Investment", "Mentoring", "Strategy", "DeFi"},
			CreatedAt: now.Add(-7 * day),
		},
		{
			ID:            "4",
			WalletAddress: "0xC2D3E4F5G6H7I8J9K0L1M2N3O4P5Q6R7S8T9U0V1",
			Name:          "Elif Özkan",
			Bio:           "Web3 topluluk yöneticisi ve etkinlik organizatörü. Türkiye'de Web3 adoption artırmaya odaklanıyor.",
			Role:          core.PersonCommunityManager,
			Location:      "Izmir",
			AvatarURL:     "/assets/avatar-1.png",
			SocialLinks: &core.SocialLinks{
				X:        "https://x.com/elifozkan",
				LinkedIn: "https://linkedin.com/in/elifozkan",
				Telegram: "https://t.me/elifozkan",
			},
			Skills:    []string{"Community Management", "Event Organization", "Marketing", "Social Media"},
			CreatedAt: now.Add(-3 * day),
		},
	}
}
