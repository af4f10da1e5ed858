package parser

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"resume-parser-go/pkg/types"
)

const (
	maxCompanyLineLength       = 100
	maxCompanyLocationLength   = 80
	maxTitleLineLength         = 80
	defaultPositionTitle       = "Position"
	monthNames                 = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	experienceSubHeaderPattern = `(?i)^(?:WORK|PROJECTS|RESEARCH) EXPERIENCE$`
)

var (
	experienceSubHeader = regexp.MustCompile(experienceSubHeaderPattern)

	titleActionVerbs   = regexp.MustCompile(`(?i)\b(?:led|developed|implemented|created|managed|designed|collaborated|streamlined|conducted|devised|ensured|initiated|contributed|parsed|analyzed|built|established|coordinated|facilitated|optimized|enhanced|integrated|deployed|maintained|executed|delivered|achieved|improved|reduced|increased)\b`)
	companyActionVerbs = regexp.MustCompile(`(?i)\b(?:led|developed|implemented|created|managed|designed|collaborated|streamlined|conducted|devised|ensured|initiated|contributed|parsed|analyzed|built|established|coordinated|facilitated|optimized|enhanced|integrated|deployed|maintained|executed|delivered|achieved|improved|reduced|increased|utilizing|enabling|resulting|providing|ensuring)\b`)

	orgKeyword = regexp.MustCompile(`(?i)\b(?:Inc|LLC|Ltd|Corp|Corporation|Company|Institute|College|University|Center|School|Solutions|Technologies|Group|Studio|Lab|Foundation|Organization|Agency|Department)\b`)
	// 州缩写大小写敏感，避免把介词 "in" 当成 Indiana
	companyLocationToken = regexp.MustCompile(`\b(?:MI|CA|NY|TX|FL|WA|IL|OH|IN|GA|PA|MA|TN|VA|NC|SC)\b|(?i:\b(?:holland|ho chi minh|hcm)\b)`)

	roleKeyword = regexp.MustCompile(`(?i)\b(?:Engineer|Developer|Manager|Analyst|Director|Lead|Coordinator|Consultant|Assistant|Intern|Fullstack|Full[-\s]?Stack|Student|Research|Software|Data|Product|Project|Senior|Junior|Principal)\b`)

	monthYear      = regexp.MustCompile(`(?i)\b` + monthNames + `\b.*\b(?:19|20)\d{2}`)
	yearRange      = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\s*[-–—]\s*(?:present|current|(?:19|20)\d{2})`)
	monthYearRange = regexp.MustCompile(`(?i)\b` + monthNames + `\s+\d{4}\s*[-–—]\s*(?:present|current|` + monthNames + `\s+\d{4})`)
	bareDate       = regexp.MustCompile(`\b(?:\d{1,2}/(?:19|20)\d{2}|(?:19|20)\d{2})\b`)

	leadingAt     = regexp.MustCompile(`(?i)^(?:at\s+|@\s*)`)
	trailingDash  = regexp.MustCompile(`[-–—]\s*$`)
	firstYearMark = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// IsCompanyLine 公司行：含组织后缀，或含逗号和地点且较短；不含动作词、不以项目符号开头
func IsCompanyLine(line string) bool {
	if line == "" || len(line) > maxCompanyLineLength {
		return false
	}
	if companyActionVerbs.MatchString(line) || startsWithBullet(line) {
		return false
	}
	if orgKeyword.MatchString(line) {
		return true
	}
	return strings.Contains(line, ",") &&
		companyLocationToken.MatchString(line) &&
		len(line) < maxCompanyLocationLength
}

// IsDateLine 日期行：月份+年份、年份区间、MM/YYYY 或单独年份
func IsDateLine(line string) bool {
	return monthYear.MatchString(line) || yearRange.MatchString(line) || bareDate.MatchString(line)
}

// LooksLikeTitleLine 职位行：含职位关键词，不是公司行或日期行，没有动作词和项目符号
func LooksLikeTitleLine(line string) bool {
	if line == "" || len(line) > maxTitleLineLength {
		return false
	}
	if !roleKeyword.MatchString(line) {
		return false
	}
	if IsCompanyLine(line) || IsDateLine(line) {
		return false
	}
	return !titleActionVerbs.MatchString(line) && !startsWithBullet(line)
}

// ExtractCompanyName 去掉 "at"/"@" 前缀，截断到第一个年份之前，去掉末尾破折号，取第一个逗号前的部分
func ExtractCompanyName(line string) string {
	company := strings.TrimSpace(leadingAt.ReplaceAllString(line, ""))
	if loc := firstYearMark.FindStringIndex(company); loc != nil {
		company = strings.TrimSpace(company[:loc[0]])
	}
	company = strings.TrimSpace(trailingDash.ReplaceAllString(company, ""))
	if i := strings.Index(company, ","); i >= 0 {
		return strings.TrimSpace(company[:i])
	}
	return company
}

// ExtractDuration 依次尝试年份区间、月份年份区间、单独年份，都没有时返回整行
func ExtractDuration(line string) string {
	for _, re := range []*regexp.Regexp{yearRange, monthYearRange, firstYearMark} {
		if m := re.FindString(line); m != "" {
			return m
		}
	}
	return strings.TrimSpace(line)
}

// experienceState 经历解析状态机的状态
type experienceState int

const (
	stateNoCompany experienceState = iota
	stateInCompany
	stateInPosition
)

// experienceMachine 单次扫描的累加器，状态由 company/position 是否打开决定
type experienceMachine struct {
	lines     []string
	pos       int
	companies []types.ExperienceCompany
	company   *types.ExperienceCompany
	position  *types.Position
}

func (m *experienceMachine) state() experienceState {
	switch {
	case m.position != nil:
		return stateInPosition
	case m.company != nil:
		return stateInCompany
	default:
		return stateNoCompany
	}
}

// peek 返回下一行（已去掉项目符号）
func (m *experienceMachine) peek() string {
	if m.pos+1 < len(m.lines) {
		return cleanLine(m.lines[m.pos+1])
	}
	return ""
}

// closePosition 把当前职位归入当前公司
func (m *experienceMachine) closePosition() {
	if m.position != nil && m.company != nil {
		m.company.Positions = append(m.company.Positions, *m.position)
	}
	m.position = nil
}

// closeCompany 先关闭职位，再把当前公司归档
func (m *experienceMachine) closeCompany() {
	m.closePosition()
	if m.company != nil {
		m.companies = append(m.companies, *m.company)
	}
	m.company = nil
}

func (m *experienceMachine) openCompany(line string, duration *string) {
	m.closeCompany()
	m.company = &types.ExperienceCompany{
		Company:   ExtractCompanyName(line),
		Duration:  duration,
		Location:  ExtractLocation(line),
		Positions: []types.Position{},
	}
}

func (m *experienceMachine) openPosition(title string) {
	m.closePosition()
	m.position = &types.Position{Title: title, Responsibilities: []string{}}
}

func (m *experienceMachine) setDuration(line string) {
	if m.company != nil {
		d := ExtractDuration(line)
		m.company.Duration = &d
	}
}

func (m *experienceMachine) addResponsibility(line string) {
	switch m.state() {
	case stateNoCompany:
		log.Debug().Str("line", line).Msg("经历解析: 跳过无归属的行")
		return
	case stateInCompany:
		m.openPosition(defaultPositionTitle)
	}
	m.position.Responsibilities = append(m.position.Responsibilities, line)
}

// experienceRule 转移规则，命中时负责推进行游标并返回 true
type experienceRule struct {
	name  string
	apply func(m *experienceMachine, line string) bool
}

// experienceRules 按优先级排列，第一条命中的规则生效
var experienceRules = []experienceRule{
	{"company_with_date", ruleCompanyWithDate},
	{"company_then_title", ruleCompanyThenTitle},
	{"date", ruleDate},
	{"title", ruleTitle},
	{"responsibility", ruleResponsibility},
	{"bare_company", ruleBareCompany},
}

// ruleCompanyWithDate 公司和日期在同一行：开新公司，下一行是职位时一并消费
func ruleCompanyWithDate(m *experienceMachine, line string) bool {
	if !IsCompanyLine(line) || !IsDateLine(line) {
		return false
	}
	d := ExtractDuration(line)
	m.openCompany(line, &d)
	if next := m.peek(); LooksLikeTitleLine(next) {
		m.openPosition(next)
		m.pos++
	}
	m.pos++
	return true
}

// ruleCompanyThenTitle 公司行后紧跟职位行
func ruleCompanyThenTitle(m *experienceMachine, line string) bool {
	if !IsCompanyLine(line) {
		return false
	}
	next := m.peek()
	if !LooksLikeTitleLine(next) {
		return false
	}
	m.openCompany(line, nil)
	m.openPosition(next)
	m.pos += 2
	return true
}

// ruleDate 单独的日期行覆盖当前公司的时间段
func ruleDate(m *experienceMachine, line string) bool {
	if !IsDateLine(line) || IsCompanyLine(line) {
		return false
	}
	m.setDuration(line)
	m.pos++
	return true
}

// ruleTitle 同一公司下的新职位
func ruleTitle(m *experienceMachine, line string) bool {
	if !LooksLikeTitleLine(line) {
		return false
	}
	m.openPosition(line)
	m.pos++
	return true
}

// ruleResponsibility 其余非公司行作为当前职位的职责
func ruleResponsibility(m *experienceMachine, line string) bool {
	if IsCompanyLine(line) {
		return false
	}
	m.addResponsibility(line)
	m.pos++
	return true
}

// ruleBareCompany 单独的公司行：仅在没有打开的公司时开始新公司，否则跳过
func ruleBareCompany(m *experienceMachine, line string) bool {
	if m.company != nil {
		log.Debug().Str("line", line).Msg("经历解析: 已有公司，跳过单独的公司行")
		m.pos++
		return true
	}
	m.openCompany(line, nil)
	m.pos++
	return true
}

// ParseExperience 将经历类章节正文解析为按雇主归并的经历列表
func ParseExperience(lines []string) types.ExperienceList {
	m := &experienceMachine{lines: lines}
	for m.pos < len(m.lines) {
		line := cleanLine(m.lines[m.pos])
		if line == "" || experienceSubHeader.MatchString(line) {
			m.pos++
			continue
		}
		for _, rule := range experienceRules {
			if rule.apply(m, line) {
				log.Trace().Str("rule", rule.name).Str("line", line).Msg("经历解析规则命中")
				break
			}
		}
	}
	m.closeCompany()
	return consolidateCompanies(m.companies)
}

// consolidateCompanies 按 (公司名, 地点) 小写键合并，职位拼接，保留更长的时间段
func consolidateCompanies(companies []types.ExperienceCompany) types.ExperienceList {
	out := types.ExperienceList{}
	index := make(map[string]int, len(companies))
	for _, c := range companies {
		if strings.TrimSpace(c.Company) == "" {
			continue
		}
		key := companyKey(c)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, c)
			continue
		}
		existing := &out[i]
		existing.Positions = append(existing.Positions, c.Positions...)
		if c.Duration != nil && (existing.Duration == nil || len(*c.Duration) > len(*existing.Duration)) {
			existing.Duration = c.Duration
		}
	}
	return out
}

func companyKey(c types.ExperienceCompany) string {
	loc := ""
	if c.Location != nil {
		loc = *c.Location
	}
	return strings.ToLower(strings.TrimSpace(c.Company)) + "|" + strings.ToLower(strings.TrimSpace(loc))
}
