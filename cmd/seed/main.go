package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/schichtplan-dev/schichtplan/backend/internal/config"
	"github.com/schichtplan-dev/schichtplan/backend/internal/repository"
	"github.com/schichtplan-dev/schichtplan/backend/internal/seed"
	"github.com/schichtplan-dev/schichtplan/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var emailDomain string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 把所有员工随机分配到团队, 3: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&emailDomain, "email-domain", "schichtplan.dev", "随机员工邮箱的域名")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 本地开发时从 .env 读取环境变量，文件不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Error("无法加载 .env 文件", "error", err)
		os.Exit(1)
	}

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				worker, err := utils.GenerateRandomWorker(cfg.Seed.Worker.Password, emailDomain)
				if err != nil {
					slog.Error("无法生成随机员工", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateWorker(worker); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 2:
		teams, err := repo.GetAllTeams()
		if err != nil {
			slog.Error("无法获取所有团队", slog.String("error", err.Error()))
			return
		}
		if len(teams) == 0 {
			slog.Error("数据库中没有团队，请先插入演示数据")
			return
		}

		workers, err := repo.GetAllWorkers()
		if err != nil {
			slog.Error("无法获取所有员工", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, worker := range workers {
			team := teams[rand.Intn(len(teams))]
			if err := repo.AddTeamMember(team.ID, worker.ID); err != nil {
				slog.Error("无法分配员工到团队", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("分配员工到团队成功", slog.Int("count", cnt))
	case 3:
		seed.SeedDemoData(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
