package seeder

import appseeder "talentbridge/internal/seeder"

func Defaults() []Seeder {
	return []Seeder{
		appseeder.DemoUsersSeeder{},
		appseeder.DemoJobsSeeder{},
		appseeder.DemoConversationsSeeder{},
	}
}
