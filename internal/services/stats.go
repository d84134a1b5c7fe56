package services

import (
	"time"

	"ideaboard/internal/db"
	"ideaboard/internal/models"
)

// Dashboard is the aggregate view behind the admin analytics page. Every
// field comes from an independent count/group-by; there is no shared state
// between the queries.
type Dashboard struct {
	TotalIdeas    int64 `json:"total_ideas"`
	TotalUsers    int64 `json:"total_users"`
	TotalComments int64 `json:"total_comments"`
	TotalVotes    int64 `json:"total_votes"`

	IdeaStatusCounts map[string]int64 `json:"idea_status_counts"`
	TopCategories    []CategoryCount  `json:"top_categories"`
	RecentTrends     Trends           `json:"recent_trends"`
	WeeklyData       []WeeklyBucket   `json:"weekly_data"`
	TopUsersByIdeas  []UserIdeaCount  `json:"top_users_by_ideas"`
	TopIdeasByVotes  []IdeaVoteCount  `json:"top_ideas_by_votes"`
	UserEngagement   Engagement       `json:"user_engagement"`
	IdeaSuccessRate  float64          `json:"idea_success_rate"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type Trends struct {
	NewIdeasLastWeek    int64 `json:"new_ideas_last_week"`
	NewUsersLastWeek    int64 `json:"new_users_last_week"`
	NewCommentsLastWeek int64 `json:"new_comments_last_week"`
	NewVotesLastWeek    int64 `json:"new_votes_last_week"`
}

type WeeklyBucket struct {
	Week     string `json:"week"` // ISO date of the bucket start
	Ideas    int64  `json:"ideas"`
	Users    int64  `json:"users"`
	Comments int64  `json:"comments"`
	Votes    int64  `json:"votes"`
}

type UserIdeaCount struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	IdeaCount int64  `json:"idea_count"`
}

type IdeaVoteCount struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	VoteCount int64  `json:"vote_count"`
}

type Engagement struct {
	AverageIdeasPerUser    float64 `json:"average_ideas_per_user"`
	AverageCommentsPerUser float64 `json:"average_comments_per_user"`
	AverageVotesPerUser    float64 `json:"average_votes_per_user"`
}

const topN = 5

// BuildDashboard runs the aggregate queries and shapes the result.
func BuildDashboard() (*Dashboard, error) {
	d := &Dashboard{IdeaStatusCounts: map[string]int64{}}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Idea{}, &d.TotalIdeas},
		{&models.User{}, &d.TotalUsers},
		{&models.Comment{}, &d.TotalComments},
		{&models.Vote{}, &d.TotalVotes},
	}
	for _, c := range counts {
		if err := db.DB.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := db.DB.Model(&models.Idea{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		d.IdeaStatusCounts[row.Status] = row.Count
	}

	if err := db.DB.Model(&models.Category{}).
		Select("categories.name, COUNT(ideas.id) as count").
		Joins("LEFT JOIN ideas ON ideas.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("count DESC").
		Limit(topN).
		Scan(&d.TopCategories).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	oneWeekAgo := now.AddDate(0, 0, -7)
	trendCounts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Idea{}, &d.RecentTrends.NewIdeasLastWeek},
		{&models.User{}, &d.RecentTrends.NewUsersLastWeek},
		{&models.Comment{}, &d.RecentTrends.NewCommentsLastWeek},
		{&models.Vote{}, &d.RecentTrends.NewVotesLastWeek},
	}
	for _, c := range trendCounts {
		if err := db.DB.Model(c.model).
			Where("created_at >= ?", oneWeekAgo).
			Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	// Four weekly buckets, most recent first
	for i := 0; i < 4; i++ {
		start := now.AddDate(0, 0, -7*(i+1))
		end := now.AddDate(0, 0, -7*i)
		bucket := WeeklyBucket{Week: start.Format("2006-01-02")}
		bucketCounts := []struct {
			model interface{}
			dest  *int64
		}{
			{&models.Idea{}, &bucket.Ideas},
			{&models.User{}, &bucket.Users},
			{&models.Comment{}, &bucket.Comments},
			{&models.Vote{}, &bucket.Votes},
		}
		for _, c := range bucketCounts {
			if err := db.DB.Model(c.model).
				Where("created_at >= ? AND created_at < ?", start, end).
				Count(c.dest).Error; err != nil {
				return nil, err
			}
		}
		d.WeeklyData = append(d.WeeklyData, bucket)
	}

	if err := db.DB.Model(&models.User{}).
		Select("users.id, users.name, COUNT(ideas.id) as idea_count").
		Joins("LEFT JOIN ideas ON ideas.author_id = users.id").
		Group("users.id, users.name").
		Order("idea_count DESC").
		Limit(topN).
		Scan(&d.TopUsersByIdeas).Error; err != nil {
		return nil, err
	}

	if err := db.DB.Model(&models.Idea{}).
		Select("ideas.id, ideas.title, COUNT(votes.id) as vote_count").
		Joins("LEFT JOIN votes ON votes.idea_id = ideas.id").
		Group("ideas.id, ideas.title").
		Order("vote_count DESC").
		Limit(topN).
		Scan(&d.TopIdeasByVotes).Error; err != nil {
		return nil, err
	}

	if d.TotalUsers > 0 {
		users := float64(d.TotalUsers)
		d.UserEngagement = Engagement{
			AverageIdeasPerUser:    float64(d.TotalIdeas) / users,
			AverageCommentsPerUser: float64(d.TotalComments) / users,
			AverageVotesPerUser:    float64(d.TotalVotes) / users,
		}
	}

	if d.TotalIdeas > 0 {
		var approved int64
		if err := db.DB.Model(&models.Idea{}).
			Where("status = ?", models.StatusApproved).
			Count(&approved).Error; err != nil {
			return nil, err
		}
		d.IdeaSuccessRate = float64(approved) / float64(d.TotalIdeas) * 100
	}

	return d, nil
}
