package stats

import (
	"construxflow/account"
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/persistence"
	"construxflow/session"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jinzhu/gorm"
)

type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type Statistics struct {
	Users             []RoleCount `json:"users"`
	TotalProjects     int         `json:"totalProjects"`
	TotalOrders       int         `json:"totalOrders"`
	TotalApplications int         `json:"totalApplications"`
}

var QueryStatisticsFunc = QueryStatistics

func QueryStatistics(s *session.Session) (*Statistics, error) {
	if !s.HasRole(authority.RoleAdmin) {
		return nil, bizerror.ErrForbidden
	}
	return Collect(persistence.ActiveDataSourceManager.GormDB(s.Context))
}

// Collect counts non-admin users per role and the workflow records
func Collect(db *gorm.DB) (*Statistics, error) {
	st := Statistics{Users: []RoleCount{}}
	if err := db.Model(&account.User{}).Select("role, COUNT(*) AS count").
		Where("role <> ?", authority.RoleAdmin).Group("role").Order("role").Scan(&st.Users).Error; err != nil {
		return nil, err
	}
	counters := []struct {
		model interface{}
		dest  *int
	}{
		{&domain.Project{}, &st.TotalProjects},
		{&domain.Order{}, &st.TotalOrders},
		{&domain.WorkerApplication{}, &st.TotalApplications},
	}
	for _, c := range counters {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &st, nil
}

func (st *Statistics) UsersOf(role string) int {
	for _, u := range st.Users {
		if u.Role == role {
			return u.Count
		}
	}
	return 0
}

// WriteTable renders the statistics as a text table
func (st *Statistics) WriteTable(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Metric", "Count"})
	for _, role := range authority.RegistrableRoles {
		tw.AppendRow(table.Row{role + "s", st.UsersOf(role)})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"projects", st.TotalProjects})
	tw.AppendRow(table.Row{"orders", st.TotalOrders})
	tw.AppendRow(table.Row{"applications", st.TotalApplications})
	tw.Render()
}
